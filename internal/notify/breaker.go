package notify

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerNotifier stops calling a failing transport for a while instead of
// piling up slow failures on every state transition.
type BreakerNotifier struct {
	next Notifier
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerNotifier(next Notifier, log *zap.Logger) *BreakerNotifier {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifier",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerNotifier{next: next, cb: cb}
}

func (b *BreakerNotifier) Notify(ctx context.Context, userID int64, text string, kb Keyboard) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Notify(ctx, userID, text, kb)
	})

	return err
}
