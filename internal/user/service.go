package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	UpsertUser(ctx context.Context, p Profile) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
}

// Whitelist answers whether an account was vetted by the group admins.
type Whitelist interface {
	IsWhitelisted(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo      Repository
	whitelist Whitelist
}

func NewService(repo Repository, whitelist Whitelist) *Service {
	return &Service{repo: repo, whitelist: whitelist}
}

// Profile is the identity the chat platform reports for a user.
type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}

// Ensure creates the user on first contact and refreshes the profile fields
// afterwards. Ratings and balance are never touched.
func (s *Service) Ensure(ctx context.Context, p Profile) (*User, error) {
	if p.UserID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive", apperr.ErrValidation)
	}

	p.Username = strings.TrimPrefix(strings.TrimSpace(p.Username), "@")
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)

	u, err := s.repo.UpsertUser(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("ensuring user %d: %w", p.UserID, err)
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) IsWhitelisted(ctx context.Context, id int64) (bool, error) {
	if s.whitelist == nil {
		return false, nil
	}

	return s.whitelist.IsWhitelisted(ctx, id)
}

// IsTrustedSeller combines the user's reputation with the whitelist.
func (s *Service) IsTrustedSeller(ctx context.Context, id int64) (bool, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return false, err
	}

	whitelisted, err := s.IsWhitelisted(ctx, id)
	if err != nil {
		return false, fmt.Errorf("checking whitelist: %w", err)
	}

	return u.Reputation.Trusted(whitelisted), nil
}
