package offer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an offer.
type Status string

const (
	StatusPending           Status = "pending"
	StatusAccepted          Status = "accepted"
	StatusRejected          Status = "rejected"
	StatusCancelled         Status = "cancelled"
	StatusReadyToCharge     Status = "ready_to_charge"
	StatusChargingStarted   Status = "charging_started"
	StatusCharging          Status = "charging"
	StatusChargingCompleted Status = "charging_completed"
	StatusKwhConfirmed      Status = "kwh_confirmed"
	StatusPaymentPending    Status = "payment_pending"
	StatusPaymentSent       Status = "payment_sent"
	StatusCompleted         Status = "completed"
	StatusDisputed          Status = "disputed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusReadyToCharge,
	StatusChargingStarted,
	StatusCharging,
	StatusChargingCompleted,
	StatusKwhConfirmed,
	StatusPaymentPending,
	StatusPaymentSent,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
	StatusDisputed,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}

	return false
}

// Terminal reports whether no transition can leave s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled, StatusDisputed:
		return true
	}

	return false
}

// Side identifies one of the two parties of an offer.
type Side string

const (
	SideBuyer  Side = "buyer"
	SideSeller Side = "seller"
)

// Feedback is a rating left by one party about the other.
type Feedback struct {
	Positive bool
	Comment  string
}

// Offer is a single negotiated charging session between a buyer and a seller.
type Offer struct {
	ID               uuid.UUID
	AnnouncementID   *uuid.UUID // nil for manual or balance-funded offers
	BuyerID          int64
	SellerID         int64
	ScheduledAt      time.Time
	Location         string
	Brand            string
	AdditionalInfo   string
	Status           Status
	KwhCharged       decimal.NullDecimal // set once
	UnitPrice        decimal.NullDecimal // set once
	TotalAmount      decimal.NullDecimal // set once, KwhCharged * UnitPrice
	PaymentMethod    string
	RejectionReason  string
	ChargerConnector string
	ChargerPhoto     string
	BuyerFeedback    *Feedback // left by the buyer about the seller
	SellerFeedback   *Feedback // left by the seller about the buyer
	CreatedAt        time.Time
	ExpiresAt        time.Time
	CompletedAt      *time.Time
	UpdatedAt        *time.Time
}

// ExpiryWindow is added to the scheduled time to compute ExpiresAt.
const ExpiryWindow = 24 * time.Hour

// SideOf returns the side userID plays in the offer.
func (o *Offer) SideOf(userID int64) (Side, bool) {
	switch userID {
	case o.BuyerID:
		return SideBuyer, true
	case o.SellerID:
		return SideSeller, true
	}

	return "", false
}

// Counterpart returns the user on the other side of s.
func (o *Offer) Counterpart(s Side) int64 {
	if s == SideBuyer {
		return o.SellerID
	}

	return o.BuyerID
}

// FeedbackFrom returns the feedback already left by side s, if any.
func (o *Offer) FeedbackFrom(s Side) *Feedback {
	if s == SideBuyer {
		return o.BuyerFeedback
	}

	return o.SellerFeedback
}

// Change lists the columns a transition writes together with the new status.
// Nil fields are left untouched; the set-once amounts are never overwritten.
type Change struct {
	To               Status
	KwhCharged       *decimal.Decimal
	UnitPrice        *decimal.Decimal
	TotalAmount      *decimal.Decimal
	PaymentMethod    *string
	RejectionReason  *string
	ChargerConnector *string
	ChargerPhoto     *string
	CompletedAt      *time.Time
}

type CreateParams struct {
	AnnouncementID   *uuid.UUID
	BuyerID          int64
	SellerID         int64
	ScheduledAt      time.Time
	Location         string
	Brand            string
	AdditionalInfo   string
	ChargerConnector string
}

type ListFilter struct {
	UserID *int64
	Status *Status
	Limit  int
}
