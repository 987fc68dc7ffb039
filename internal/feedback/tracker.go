package feedback

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/metrics"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

//go:generate mockgen -source=tracker.go -destination=repository_mock.go -package=feedback
type Repository interface {
	// SaveFeedback stores side's rating on the offer and updates the rated
	// user's counters in one database transaction. It returns
	// apperr.ErrAlreadySubmitted when side has already rated.
	SaveFeedback(ctx context.Context, offerID uuid.UUID, side offer.Side, fb offer.Feedback, ratedUserID int64) error
}

// Offers loads the offer being rated.
type Offers interface {
	Get(ctx context.Context, id uuid.UUID) (*offer.Offer, error)
}

type Tracker struct {
	repo     Repository
	offers   Offers
	notifier notify.Notifier
	log      *zap.Logger
}

func NewTracker(repo Repository, offers Offers, notifier notify.Notifier, log *zap.Logger) *Tracker {
	return &Tracker{repo: repo, offers: offers, notifier: notifier, log: log}
}

// Submit records one rating per side of a completed offer.
func (t *Tracker) Submit(ctx context.Context, offerID uuid.UUID, side offer.Side, actorID int64, positive bool, comment string) error {
	if side != offer.SideBuyer && side != offer.SideSeller {
		return fmt.Errorf("%w: unknown side %q", apperr.ErrValidation, side)
	}

	o, err := t.offers.Get(ctx, offerID)
	if err != nil {
		return err
	}

	if o.Status != offer.StatusCompleted {
		return fmt.Errorf("%w: offer %s is %s, feedback needs a completed offer", apperr.ErrStateConflict, o.ID, o.Status)
	}

	if actual, ok := o.SideOf(actorID); !ok || actual != side {
		return fmt.Errorf("%w: user %d is not the %s of offer %s", apperr.ErrForbidden, actorID, side, o.ID)
	}

	if o.FeedbackFrom(side) != nil {
		return fmt.Errorf("%s feedback on offer %s: %w", side, o.ID, apperr.ErrAlreadySubmitted)
	}

	rated := o.Counterpart(side)
	fb := offer.Feedback{Positive: positive, Comment: strings.TrimSpace(comment)}

	if err := t.repo.SaveFeedback(ctx, o.ID, side, fb, rated); err != nil {
		return err
	}

	metrics.FeedbackSubmitted.WithLabelValues(strconv.FormatBool(positive)).Inc()
	t.log.Info("feedback recorded",
		zap.String("offer_id", o.ID.String()),
		zap.String("side", string(side)),
		zap.Int64("rated_user_id", rated),
		zap.Bool("positive", positive),
	)

	text := "👎 Hai ricevuto una valutazione negativa."
	if positive {
		text = "👍 Hai ricevuto una valutazione positiva."
	}

	if fb.Comment != "" {
		text += "\n«" + fb.Comment + "»"
	}

	if err := t.notifier.Notify(ctx, rated, text, nil); err != nil {
		metrics.NotificationFailures.Inc()
		t.log.Warn("failed to deliver notification", zap.Int64("user_id", rated), zap.Error(err))
	}

	return nil
}

// ParseCallback decodes the payload of a rating button.
func ParseCallback(data string) (uuid.UUID, bool, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "feedback" {
		return uuid.Nil, false, fmt.Errorf("%w: malformed feedback callback %q", apperr.ErrValidation, data)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: malformed offer id: %v", apperr.ErrValidation, err)
	}

	switch parts[2] {
	case "1":
		return id, true, nil
	case "0":
		return id, false, nil
	}

	return uuid.Nil, false, fmt.Errorf("%w: malformed rating %q", apperr.ErrValidation, parts[2])
}
