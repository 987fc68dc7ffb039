// Package notify delivers bot messages to marketplace users.
package notify

import "context"

// Button is a single inline keyboard button. Data is the callback payload
// the bot layer sends back when the button is pressed.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Keyboard is a grid of inline buttons, one slice per row.
type Keyboard [][]Button

//go:generate mockgen -source=notify.go -destination=notifier_mock.go -package=notify
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string, kb Keyboard) error
}
