package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/announcement"
	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/metrics"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
	"github.com/MrJamesThe3rd/kwhmarket/internal/user"
)

//go:generate mockgen -source=engine.go -destination=repository_mock.go -package=offer
type Repository interface {
	CreateOffer(ctx context.Context, o *Offer) error
	GetOffer(ctx context.Context, id uuid.UUID) (*Offer, error)
	ListOffers(ctx context.Context, filter ListFilter) ([]*Offer, error)
	ListExpired(ctx context.Context, now time.Time, statuses []Status) ([]*Offer, error)

	// UpdateStatus applies c only if the offer is still in status from and
	// returns the updated offer. A lost race yields a *StateConflictError.
	UpdateStatus(ctx context.Context, id uuid.UUID, from Status, c Change) (*Offer, error)
	// CompleteOffer is UpdateStatus plus the insertion of tx, in one database
	// transaction. A non-nil settle runs on the completed offer before commit
	// and its error rolls everything back.
	CompleteOffer(ctx context.Context, id uuid.UUID, from Status, c Change, tx *transaction.Transaction, settle SettleFunc) (*Offer, error)
}

// Listings resolves the announcement an offer refers to.
type Listings interface {
	Get(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error)
}

// Users resolves the parties of a new offer. A missing user is
// user.ErrNotFound.
type Users interface {
	Get(ctx context.Context, id int64) (*user.User, error)
}

// SettleFunc runs inside the completion transaction. ctx carries that
// transaction for stores that join it.
type SettleFunc func(ctx context.Context, o *Offer) error

// Settler covers an admin-bought offer with donated credit as part of its
// completion. Cover returns the message for the admin, sent after commit.
type Settler interface {
	Cover(ctx context.Context, o *Offer) (string, error)
}

type Engine struct {
	repo     Repository
	notifier notify.Notifier
	log      *zap.Logger
	listings Listings
	users    Users
	settler  Settler
	adminID  int64
	now      func() time.Time
}

type Option func(*Engine)

func WithListings(l Listings) Option { return func(e *Engine) { e.listings = l } }

func WithUsers(u Users) Option { return func(e *Engine) { e.users = u } }

func WithSettler(s Settler) Option { return func(e *Engine) { e.settler = s } }

// WithAdmin sets the admin account. Offers bought by it are settled against
// donations and payment disputes are reported to it.
func WithAdmin(id int64) Option { return func(e *Engine) { e.adminID = id } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func NewEngine(repo Repository, notifier notify.Notifier, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) Create(ctx context.Context, params CreateParams) (*Offer, error) {
	if err := e.validateCreate(ctx, params); err != nil {
		return nil, err
	}

	o := &Offer{
		AnnouncementID:   params.AnnouncementID,
		BuyerID:          params.BuyerID,
		SellerID:         params.SellerID,
		ScheduledAt:      params.ScheduledAt,
		Location:         params.Location,
		Brand:            params.Brand,
		AdditionalInfo:   params.AdditionalInfo,
		ChargerConnector: params.ChargerConnector,
		Status:           StatusPending,
		ExpiresAt:        params.ScheduledAt.Add(ExpiryWindow),
	}

	if err := e.repo.CreateOffer(ctx, o); err != nil {
		return nil, err
	}

	metrics.OffersCreated.Inc()
	e.log.Info("offer created",
		zap.String("offer_id", o.ID.String()),
		zap.Int64("buyer_id", o.BuyerID),
		zap.Int64("seller_id", o.SellerID),
	)

	e.deliver(ctx, o, createdNotices(o))

	return o, nil
}

func (e *Engine) validateCreate(ctx context.Context, params CreateParams) error {
	if params.BuyerID == 0 || params.SellerID == 0 {
		return fmt.Errorf("%w: buyer and seller are required", apperr.ErrValidation)
	}

	if params.BuyerID == params.SellerID {
		return fmt.Errorf("%w: buyer and seller must differ", apperr.ErrValidation)
	}

	if params.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", apperr.ErrValidation)
	}

	if e.users != nil {
		for _, id := range []int64{params.BuyerID, params.SellerID} {
			if _, err := e.users.Get(ctx, id); err != nil {
				return fmt.Errorf("resolving user %d: %w", id, err)
			}
		}
	}

	if params.AnnouncementID == nil || e.listings == nil {
		return nil
	}

	a, err := e.listings.Get(ctx, *params.AnnouncementID)
	if err != nil {
		return fmt.Errorf("resolving announcement: %w", err)
	}

	if a.Status != announcement.StatusActive {
		return fmt.Errorf("%w: announcement %s is %s", apperr.ErrStateConflict, a.ID, a.Status)
	}

	owner, role := params.SellerID, "seller"
	if a.Type == announcement.TypeBuy {
		owner, role = params.BuyerID, "buyer"
	}

	if a.OwnerID != owner {
		return fmt.Errorf("%w: announcement %s does not belong to the %s", apperr.ErrValidation, a.ID, role)
	}

	return nil
}

func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*Offer, error) {
	return e.repo.GetOffer(ctx, id)
}

func (e *Engine) List(ctx context.Context, filter ListFilter) ([]*Offer, error) {
	return e.repo.ListOffers(ctx, filter)
}

// Transition moves offer id along edge action, provided it is still in the
// expected status. State is committed before any notification is sent;
// notification failures are logged and never returned.
func (e *Engine) Transition(ctx context.Context, id uuid.UUID, action Action, p Payload, expected Status) (*Offer, error) {
	o, err := e.transition(ctx, id, action, p, expected)
	metrics.OfferTransitions.WithLabelValues(string(action), resultLabel(err)).Inc()

	if err != nil {
		return nil, err
	}

	return o, nil
}

func (e *Engine) transition(ctx context.Context, id uuid.UUID, action Action, p Payload, expected Status) (*Offer, error) {
	step, ok := transitions[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", apperr.ErrValidation, action)
	}

	if !step.allows(expected) {
		return nil, &StateConflictError{OfferID: id, Action: action, Expected: expected}
	}

	if step.validate != nil {
		if err := step.validate(p); err != nil {
			return nil, err
		}
	}

	current, err := e.repo.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(step.actor, current, p.ActorID); err != nil {
		return nil, err
	}

	if current.Status != expected {
		return nil, &StateConflictError{OfferID: id, Action: action, Expected: expected, Actual: current.Status}
	}

	updated := current

	var settled string

	if !step.loops() {
		updated, settled, err = e.commit(ctx, step, current, p, expected)
		if err != nil {
			var conflict *StateConflictError
			if errors.As(err, &conflict) {
				conflict.Action = action
			}

			return nil, err
		}
	}

	e.log.Info("offer transition",
		zap.String("offer_id", id.String()),
		zap.String("action", string(action)),
		zap.String("from", string(expected)),
		zap.String("to", string(updated.Status)),
		zap.Int64("actor_id", p.ActorID),
	)

	e.deliver(ctx, updated, transitionNotices(action, updated, p, e.adminID))

	if updated.Status == StatusCompleted && !step.loops() {
		metrics.KwhTraded.Add(updated.KwhCharged.Decimal.InexactFloat64())

		if settled != "" {
			e.deliver(ctx, updated, []notice{{to: updated.BuyerID, text: settled}})
		}
	}

	return updated, nil
}

func (e *Engine) commit(ctx context.Context, step edge, current *Offer, p Payload, expected Status) (*Offer, string, error) {
	change, err := step.apply(current, p, e.now().UTC())
	if err != nil {
		return nil, "", err
	}

	if change.To != StatusCompleted {
		o, err := e.repo.UpdateStatus(ctx, current.ID, expected, change)
		return o, "", err
	}

	tx, err := transaction.New(transaction.CreateParams{
		OfferID:       current.ID,
		SellerID:      current.SellerID,
		BuyerID:       current.BuyerID,
		KwhAmount:     current.KwhCharged.Decimal,
		TotalAmount:   current.TotalAmount.Decimal,
		PaymentMethod: current.PaymentMethod,
	})
	if err != nil {
		return nil, "", fmt.Errorf("building transaction: %w", err)
	}

	var (
		settle SettleFunc
		text   string
	)

	if e.settles(current) {
		settle = func(ctx context.Context, o *Offer) error {
			t, err := e.settler.Cover(ctx, o)
			if err != nil {
				return fmt.Errorf("settling against donations: %w", err)
			}

			text = t

			return nil
		}
	}

	o, err := e.repo.CompleteOffer(ctx, current.ID, expected, change, tx, settle)
	if err != nil {
		return nil, "", err
	}

	return o, text, nil
}

// settles reports whether completing o consumes the seller's donations.
func (e *Engine) settles(o *Offer) bool {
	return e.settler != nil && e.adminID != 0 && o.BuyerID == e.adminID
}

// ExpireStale cancels pending and accepted offers whose expiry has passed.
// Offers that move on concurrently are skipped.
func (e *Engine) ExpireStale(ctx context.Context) (int, error) {
	stale, err := e.repo.ListExpired(ctx, e.now().UTC(), transitions[ActionExpire].from)
	if err != nil {
		return 0, fmt.Errorf("listing expired offers: %w", err)
	}

	expired := 0

	for _, o := range stale {
		_, err := e.Transition(ctx, o.ID, ActionExpire, Payload{ActorID: SystemActor}, o.Status)
		if err != nil {
			if errors.Is(err, apperr.ErrStateConflict) {
				continue
			}

			return expired, fmt.Errorf("expiring offer %s: %w", o.ID, err)
		}

		expired++
	}

	return expired, nil
}

func authorize(a actor, o *Offer, actorID int64) error {
	var allowed bool

	switch a {
	case actorBuyer:
		allowed = actorID == o.BuyerID
	case actorSeller:
		allowed = actorID == o.SellerID
	case actorSystem:
		allowed = actorID == SystemActor
	}

	if !allowed {
		return fmt.Errorf("%w: user %d cannot act on offer %s", apperr.ErrForbidden, actorID, o.ID)
	}

	return nil
}

func (e *Engine) deliver(ctx context.Context, o *Offer, notices []notice) {
	for _, n := range notices {
		if err := e.notifier.Notify(ctx, n.to, n.text, n.kb); err != nil {
			metrics.NotificationFailures.Inc()
			e.log.Warn("failed to deliver notification",
				zap.String("offer_id", o.ID.String()),
				zap.Int64("user_id", n.to),
				zap.Error(err),
			)
		}
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrStateConflict):
		return "conflict"
	case errors.Is(err, apperr.ErrValidation):
		return "invalid"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrForbidden):
		return "forbidden"
	}

	return "error"
}
