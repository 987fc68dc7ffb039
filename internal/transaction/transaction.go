package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

// ErrNotFound is returned when a transaction does not exist.
var ErrNotFound = fmt.Errorf("transaction %w", apperr.ErrNotFound)

// Status represents the state of a recorded exchange.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
)

// Transaction is the immutable record of a completed kWh exchange. Only the
// status may change afterwards, and only towards disputed.
type Transaction struct {
	ID            uuid.UUID
	OfferID       uuid.UUID
	SellerID      int64
	BuyerID       int64
	KwhAmount     decimal.Decimal
	UnitPrice     decimal.Decimal // TotalAmount / KwhAmount
	TotalAmount   decimal.Decimal
	PaymentMethod string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
