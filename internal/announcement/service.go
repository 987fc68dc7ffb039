package announcement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

// ErrNotFound is returned when an announcement does not exist.
var ErrNotFound = fmt.Errorf("announcement %w", apperr.ErrNotFound)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=announcement
type Repository interface {
	CreateAnnouncement(ctx context.Context, a *Announcement) error
	GetAnnouncement(ctx context.Context, id uuid.UUID) (*Announcement, error)
	GetActive(ctx context.Context, ownerID int64, t Type) (*Announcement, error)

	// BeginListing opens a transaction serialized per (owner, type).
	BeginListing(ctx context.Context, ownerID int64, t Type) (ListingTx, error)
}

// ListingTx changes an owner's listings of one type together with the
// user's active announcement pointer.
type ListingTx interface {
	ArchiveActive(ctx context.Context, ownerID int64, t Type) error
	CreateAnnouncement(ctx context.Context, a *Announcement) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	SetActivePointer(ctx context.Context, ownerID int64, t Type, id uuid.UUID) error
	// ClearActivePointer unsets the pointer only while it still refers to id.
	ClearActivePointer(ctx context.Context, ownerID int64, t Type, id uuid.UUID) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Type          Type
	OwnerID       int64
	Price         string
	ConnectorType ConnectorType
	Brands        []string
	Location      string
}

func (p CreateParams) validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: unknown announcement type %q", apperr.ErrValidation, p.Type)
	}

	if !p.ConnectorType.Valid() {
		return fmt.Errorf("%w: unknown connector type %q", apperr.ErrValidation, p.ConnectorType)
	}

	if p.OwnerID == 0 {
		return fmt.Errorf("%w: owner is required", apperr.ErrValidation)
	}

	return nil
}

func build(params CreateParams) *Announcement {
	brands := make([]string, 0, len(params.Brands))

	for _, b := range params.Brands {
		if b = strings.TrimSpace(b); b != "" {
			brands = append(brands, b)
		}
	}

	return &Announcement{
		Type:          params.Type,
		OwnerID:       params.OwnerID,
		Price:         strings.TrimSpace(params.Price),
		ConnectorType: params.ConnectorType,
		Brands:        brands,
		Location:      strings.TrimSpace(params.Location),
		Status:        StatusActive,
	}
}

// Create inserts a new active announcement. It does not archive the owner's
// current one; use Publish for that.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Announcement, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	a := build(params)
	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Announcement, error) {
	return s.repo.GetAnnouncement(ctx, id)
}

// GetActive returns the owner's active announcement of type t, or nil.
func (s *Service) GetActive(ctx context.Context, ownerID int64, t Type) (*Announcement, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown announcement type %q", apperr.ErrValidation, t)
	}

	return s.repo.GetActive(ctx, ownerID, t)
}

// Archive marks an announcement archived. Archiving an archived announcement
// is a no-op.
func (s *Service) Archive(ctx context.Context, id uuid.UUID) error {
	return s.retire(ctx, id, StatusArchived)
}

// Complete marks an announcement completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	return s.retire(ctx, id, StatusCompleted)
}

// retire takes an announcement out of the active set and clears the owner's
// pointer to it in the same database transaction.
func (s *Service) retire(ctx context.Context, id uuid.UUID, status Status) error {
	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}

	if a.Status == status {
		return nil
	}

	ltx, err := s.repo.BeginListing(ctx, a.OwnerID, a.Type)
	if err != nil {
		return fmt.Errorf("begin %s: %w", status, err)
	}
	defer ltx.Rollback()

	if err := ltx.SetStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	if err := ltx.ClearActivePointer(ctx, a.OwnerID, a.Type, id); err != nil {
		return fmt.Errorf("clear active announcement: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", status, err)
	}

	return nil
}

// Publish archives the owner's active announcement of the same type and
// creates the new one in a single database transaction, so an owner never has
// two active listings of one type.
func (s *Service) Publish(ctx context.Context, params CreateParams) (*Announcement, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	ltx, err := s.repo.BeginListing(ctx, params.OwnerID, params.Type)
	if err != nil {
		return nil, fmt.Errorf("begin publish: %w", err)
	}
	defer ltx.Rollback()

	if err := ltx.ArchiveActive(ctx, params.OwnerID, params.Type); err != nil {
		return nil, fmt.Errorf("archive active: %w", err)
	}

	a := build(params)
	if err := ltx.CreateAnnouncement(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	if err := ltx.SetActivePointer(ctx, params.OwnerID, params.Type, a.ID); err != nil {
		return nil, fmt.Errorf("set active announcement: %w", err)
	}

	if err := ltx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish: %w", err)
	}

	return a, nil
}
