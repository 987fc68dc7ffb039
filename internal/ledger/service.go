package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/metrics"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// CreateDonation inserts d and credits the admin's balance atomically.
	CreateDonation(ctx context.Context, d *Donation) error
	SumDonations(ctx context.Context, adminID, donorID int64, used bool) (decimal.Decimal, error)
	ListDonations(ctx context.Context, adminID, donorID int64) ([]*Donation, error)
	Summary(ctx context.Context, adminID int64) ([]DonorSummary, error)

	// BeginConsume opens a transaction serialized per (admin, donor).
	BeginConsume(ctx context.Context, adminID, donorID int64) (ConsumeTx, error)
}

type ConsumeTx interface {
	// UsedForOffer sums the donations already spent on offerID.
	UsedForOffer(ctx context.Context, offerID uuid.UUID) (decimal.Decimal, int, error)
	// ListUnused returns unused donations oldest first.
	ListUnused(ctx context.Context, adminID, donorID int64) ([]*Donation, error)
	MarkUsed(ctx context.Context, id, offerID uuid.UUID) error
	Shrink(ctx context.Context, id uuid.UUID, kwh decimal.Decimal) error
	InsertDonation(ctx context.Context, d *Donation) error
	DebitBalance(ctx context.Context, userID int64, kwh decimal.Decimal, allowNegative bool) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo          Repository
	notifier      notify.Notifier
	log           *zap.Logger
	allowNegative bool
}

type Option func(*Service)

// WithNegativeBalance lets debits take the admin balance below zero instead
// of clamping it.
func WithNegativeBalance(allow bool) Option {
	return func(s *Service) { s.allowNegative = allow }
}

func NewService(repo Repository, notifier notify.Notifier, log *zap.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, notifier: notifier, log: log}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var printer = message.NewPrinter(language.Italian)

func formatKwh(d decimal.Decimal) string {
	return printer.Sprintf("%.2f kWh", d.InexactFloat64())
}

func (s *Service) Donate(ctx context.Context, donorID, adminID int64, kwh decimal.Decimal) (*Donation, error) {
	if donorID == 0 || adminID == 0 {
		return nil, fmt.Errorf("%w: donor and admin are required", apperr.ErrValidation)
	}

	if donorID == adminID {
		return nil, fmt.Errorf("%w: the admin cannot donate to themselves", apperr.ErrValidation)
	}

	if !kwh.IsPositive() {
		return nil, fmt.Errorf("%w: donated kwh must be positive", apperr.ErrValidation)
	}

	if !offer.FitsPlaces(kwh, offer.KwhPlaces) {
		return nil, fmt.Errorf("%w: donated kwh accepts at most %d decimals", apperr.ErrValidation, offer.KwhPlaces)
	}

	d := &Donation{DonorID: donorID, AdminID: adminID, KwhAmount: kwh}
	if err := s.repo.CreateDonation(ctx, d); err != nil {
		return nil, fmt.Errorf("recording donation: %w", err)
	}

	metrics.KwhDonated.Add(kwh.InexactFloat64())
	s.log.Info("donation recorded",
		zap.String("donation_id", d.ID.String()),
		zap.Int64("donor_id", donorID),
		zap.Int64("admin_id", adminID),
		zap.String("kwh", kwh.String()),
	)

	s.notify(ctx, adminID, fmt.Sprintf("🎁 L'utente %d ha donato %s.", donorID, formatKwh(kwh)))

	return d, nil
}

// ConsumeForOffer spends the seller's unused donations to the admin, oldest
// first, to cover the kWh of an offer the admin bought. Insufficient credit is
// reported through the result, not as an error. Consuming the same offer twice
// returns the earlier coverage and changes nothing.
func (s *Service) ConsumeForOffer(ctx context.Context, o *offer.Offer) (*ConsumeResult, error) {
	if !o.KwhCharged.Valid || !o.KwhCharged.Decimal.IsPositive() {
		return nil, fmt.Errorf("%w: offer %s has no charged kwh", apperr.ErrValidation, o.ID)
	}

	adminID, donorID, need := o.BuyerID, o.SellerID, o.KwhCharged.Decimal

	ltx, err := s.repo.BeginConsume(ctx, adminID, donorID)
	if err != nil {
		return nil, fmt.Errorf("begin consume: %w", err)
	}
	defer ltx.Rollback()

	prior, records, err := ltx.UsedForOffer(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("checking prior settlement: %w", err)
	}

	if records > 0 {
		return &ConsumeResult{Covered: prior, Shortfall: need.Sub(prior), AlreadySettled: true}, nil
	}

	unused, err := ltx.ListUnused(ctx, adminID, donorID)
	if err != nil {
		return nil, fmt.Errorf("listing unused donations: %w", err)
	}

	remaining := need
	touched := 0

	for _, d := range unused {
		if !remaining.IsPositive() {
			break
		}

		if d.KwhAmount.LessThanOrEqual(remaining) {
			if err := ltx.MarkUsed(ctx, d.ID, o.ID); err != nil {
				return nil, fmt.Errorf("marking donation %s used: %w", d.ID, err)
			}

			remaining = remaining.Sub(d.KwhAmount)
			touched++

			continue
		}

		used, rest, err := Split(*d, remaining)
		if err != nil {
			return nil, err
		}

		if err := ltx.Shrink(ctx, rest.ID, rest.KwhAmount); err != nil {
			return nil, fmt.Errorf("shrinking donation %s: %w", d.ID, err)
		}

		used.UsedInOfferID = &o.ID
		if err := ltx.InsertDonation(ctx, &used); err != nil {
			return nil, fmt.Errorf("recording used part of donation %s: %w", d.ID, err)
		}

		remaining = decimal.Zero
		touched++
	}

	covered := need.Sub(remaining)

	if covered.IsPositive() {
		if err := ltx.DebitBalance(ctx, adminID, covered, s.allowNegative); err != nil {
			return nil, fmt.Errorf("debiting admin balance: %w", err)
		}
	}

	if err := ltx.Commit(); err != nil {
		return nil, fmt.Errorf("commit consume: %w", err)
	}

	metrics.KwhConsumed.Add(covered.InexactFloat64())
	s.log.Info("donations consumed",
		zap.String("offer_id", o.ID.String()),
		zap.Int64("admin_id", adminID),
		zap.Int64("donor_id", donorID),
		zap.String("covered", covered.String()),
		zap.String("shortfall", remaining.String()),
		zap.Int("records", touched),
	)

	return &ConsumeResult{Covered: covered, Shortfall: remaining, RecordsTouched: touched}, nil
}

// Settle covers a completed admin purchase with the seller's donations and
// tells the admin how much was covered.
func (s *Service) Settle(ctx context.Context, o *offer.Offer) error {
	if o.Status != offer.StatusCompleted {
		return fmt.Errorf("%w: offer %s is %s, not completed", apperr.ErrStateConflict, o.ID, o.Status)
	}

	text, err := s.Cover(ctx, o)
	if err != nil {
		return err
	}

	if text != "" {
		s.notify(ctx, o.BuyerID, text)
	}

	return nil
}

// Cover consumes donations for o and returns the message for the admin, empty
// when o was already settled. It sends nothing, so it can run inside the
// transaction that completes o.
func (s *Service) Cover(ctx context.Context, o *offer.Offer) (string, error) {
	res, err := s.ConsumeForOffer(ctx, o)
	if err != nil {
		return "", err
	}

	if res.AlreadySettled {
		return "", nil
	}

	text := fmt.Sprintf("🔋 Offerta %s: coperti %s con le donazioni dell'utente %d.",
		o.ID, formatKwh(res.Covered), o.SellerID)
	if res.Shortfall.IsPositive() {
		text += fmt.Sprintf("\nMancano %s.", formatKwh(res.Shortfall))
	}

	return text, nil
}

// Available is the unused credit donor has given to admin.
func (s *Service) Available(ctx context.Context, adminID, donorID int64) (decimal.Decimal, error) {
	return s.repo.SumDonations(ctx, adminID, donorID, false)
}

// Used is the credit from donor that admin has already spent.
func (s *Service) Used(ctx context.Context, adminID, donorID int64) (decimal.Decimal, error) {
	return s.repo.SumDonations(ctx, adminID, donorID, true)
}

func (s *Service) Donations(ctx context.Context, adminID, donorID int64) ([]*Donation, error) {
	return s.repo.ListDonations(ctx, adminID, donorID)
}

func (s *Service) Summary(ctx context.Context, adminID int64) ([]DonorSummary, error) {
	return s.repo.Summary(ctx, adminID)
}

func (s *Service) notify(ctx context.Context, userID int64, text string) {
	if err := s.notifier.Notify(ctx, userID, text, nil); err != nil {
		metrics.NotificationFailures.Inc()
		s.log.Warn("failed to deliver notification", zap.Int64("user_id", userID), zap.Error(err))
	}
}
