package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Message is the payload published for the bot gateway.
type Message struct {
	UserID   int64    `json:"user_id"`
	Text     string   `json:"text"`
	Keyboard Keyboard `json:"keyboard,omitempty"`
}

// Publisher is the subset of *nats.Conn used to publish messages.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes every notification on "<prefix>.<userID>". The bot
// gateway subscribes to "<prefix>.*" and performs the actual chat delivery.
type NATSNotifier struct {
	pub    Publisher
	prefix string
	log    *zap.Logger
}

func NewNATSNotifier(pub Publisher, prefix string, log *zap.Logger) *NATSNotifier {
	return &NATSNotifier{pub: pub, prefix: prefix, log: log}
}

// Connect opens a NATS connection for the notifier.
func Connect(url string, log *zap.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("kwhmarket"))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	log.Info("connected to nats", zap.String("url", url))

	return nc, nil
}

func (n *NATSNotifier) Subject(userID int64) string {
	return fmt.Sprintf("%s.%d", n.prefix, userID)
}

func (n *NATSNotifier) Notify(_ context.Context, userID int64, text string, kb Keyboard) error {
	data, err := json.Marshal(Message{UserID: userID, Text: text, Keyboard: kb})
	if err != nil {
		return fmt.Errorf("marshalling message: %w", err)
	}

	if err := n.pub.Publish(n.Subject(userID), data); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}

	return nil
}
