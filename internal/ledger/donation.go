package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

// Donation is kWh credit a seller gave to the admin. Records are never
// deleted: consuming one flags it used, consuming part of one splits it.
type Donation struct {
	ID            uuid.UUID
	DonorID       int64
	AdminID       int64
	KwhAmount     decimal.Decimal
	IsUsed        bool
	UsedInOfferID *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Split divides d into a used part of amount kWh and the unused remainder.
// The used part is a new record that keeps the original creation time, so
// FIFO order survives the split; the remainder keeps d's identity.
func Split(d Donation, amount decimal.Decimal) (used, remainder Donation, err error) {
	if !amount.IsPositive() || amount.GreaterThanOrEqual(d.KwhAmount) {
		return Donation{}, Donation{}, fmt.Errorf("%w: cannot split %s kWh out of %s", apperr.ErrValidation, amount, d.KwhAmount)
	}

	used = Donation{
		DonorID:   d.DonorID,
		AdminID:   d.AdminID,
		KwhAmount: amount,
		IsUsed:    true,
		CreatedAt: d.CreatedAt,
	}

	remainder = d
	remainder.KwhAmount = d.KwhAmount.Sub(amount)
	remainder.IsUsed = false
	remainder.UsedInOfferID = nil

	return used, remainder, nil
}

// DonorSummary aggregates one donor's credit towards an admin.
type DonorSummary struct {
	DonorID   int64
	Available decimal.Decimal
	Used      decimal.Decimal
	Donations int
}

// ConsumeResult reports how much of an offer donated credit covered.
type ConsumeResult struct {
	Covered        decimal.Decimal
	Shortfall      decimal.Decimal
	RecordsTouched int
	// AlreadySettled is set when the offer had been settled before; Covered
	// then repeats the earlier amount.
	AlreadySettled bool
}
