package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetByOffer(ctx context.Context, offerID uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	MarkDisputed(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OfferID       uuid.UUID
	SellerID      int64
	BuyerID       int64
	KwhAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod string
}

type ListFilter struct {
	UserID *int64
	Status *Status
}

// New builds the record for a settled offer and derives the unit price.
// It does not persist anything: the offer store inserts it in the same
// database transaction that completes the offer.
func New(params CreateParams) (*Transaction, error) {
	if !params.KwhAmount.IsPositive() {
		return nil, fmt.Errorf("%w: kwh amount must be positive", apperr.ErrValidation)
	}

	if params.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: total amount must not be negative", apperr.ErrValidation)
	}

	return &Transaction{
		OfferID:       params.OfferID,
		SellerID:      params.SellerID,
		BuyerID:       params.BuyerID,
		KwhAmount:     params.KwhAmount,
		UnitPrice:     params.TotalAmount.Div(params.KwhAmount),
		TotalAmount:   params.TotalAmount,
		PaymentMethod: params.PaymentMethod,
		Status:        StatusCompleted,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ForOffer(ctx context.Context, offerID uuid.UUID) (*Transaction, error) {
	return s.repo.GetByOffer(ctx, offerID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// MarkDisputed flags a completed transaction. Disputes are resolved by hand.
func (s *Service) MarkDisputed(ctx context.Context, id uuid.UUID) error {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if tx.Status == StatusDisputed {
		return nil
	}

	return s.repo.MarkDisputed(ctx, id)
}
