package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier only logs messages. It is used when no NATS url is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, userID int64, text string, kb Keyboard) error {
	n.log.Info("notification",
		zap.Int64("user_id", userID),
		zap.String("text", text),
		zap.Int("keyboard_rows", len(kb)),
	)

	return nil
}
