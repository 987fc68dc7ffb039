package offer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
)

// Action is a request to move an offer along its lifecycle.
type Action string

const (
	ActionAccept          Action = "accept"
	ActionReject          Action = "reject"
	ActionBuyerReady      Action = "buyer_ready"
	ActionBuyerCancel     Action = "buyer_cancel"
	ActionStartCharging   Action = "start_charging"
	ActionConfirmCharging Action = "confirm_charging"
	ActionReportIssue     Action = "report_issue"
	ActionDeclareKwh      Action = "declare_kwh"
	ActionSubmitPhoto     Action = "submit_photo"
	ActionConfirmKwh      Action = "confirm_kwh"
	ActionDisputeKwh      Action = "dispute_kwh"
	ActionSetPrice        Action = "set_price"
	ActionMarkPaid        Action = "mark_paid"
	ActionConfirmPayment  Action = "confirm_payment"
	ActionDisputePayment  Action = "dispute_payment"
	ActionExpire          Action = "expire"
)

// actor is the party allowed to perform an action.
type actor int

const (
	actorBuyer actor = iota
	actorSeller
	actorSystem
)

// SystemActor is the actor id used for transitions the service performs on
// its own, such as expiring stale offers.
const SystemActor int64 = 0

// ExpiredReason is recorded on offers cancelled by the expiry sweep.
const ExpiredReason = "expired"

// Payload carries the inputs an action needs. Only the fields relevant to the
// action are read.
type Payload struct {
	ActorID   int64
	Reason    string
	Kwh       decimal.Decimal
	UnitPrice decimal.Decimal
	Method    string
	Photo     string
	Connector string
}

type edge struct {
	from  []Status
	to    Status
	actor actor
	// validate checks the payload before any I/O.
	validate func(p Payload) error
	// change builds the columns written with the new status. It is only
	// called for edges that actually move the offer.
	change func(o *Offer, p Payload, now time.Time) (Change, error)
}

// loops reports whether the edge keeps the offer in its current status.
func (e edge) loops() bool {
	return len(e.from) == 1 && e.from[0] == e.to
}

func (e edge) allows(s Status) bool {
	for _, f := range e.from {
		if f == s {
			return true
		}
	}

	return false
}

// transitions is the complete lifecycle table. Any (status, action) pair not
// listed here is a state conflict.
var transitions = map[Action]edge{
	ActionAccept: {
		from:  []Status{StatusPending},
		to:    StatusAccepted,
		actor: actorSeller,
	},
	ActionReject: {
		from:     []Status{StatusPending},
		to:       StatusRejected,
		actor:    actorSeller,
		validate: requireReason,
		change: func(_ *Offer, p Payload, _ time.Time) (Change, error) {
			return Change{To: StatusRejected, RejectionReason: new(strings.TrimSpace(p.Reason))}, nil
		},
	},
	ActionBuyerReady: {
		from:  []Status{StatusAccepted},
		to:    StatusReadyToCharge,
		actor: actorBuyer,
	},
	ActionBuyerCancel: {
		from:     []Status{StatusAccepted},
		to:       StatusCancelled,
		actor:    actorBuyer,
		validate: requireReason,
		change: func(_ *Offer, p Payload, _ time.Time) (Change, error) {
			return Change{To: StatusCancelled, RejectionReason: new(strings.TrimSpace(p.Reason))}, nil
		},
	},
	ActionStartCharging: {
		from:  []Status{StatusReadyToCharge},
		to:    StatusChargingStarted,
		actor: actorSeller,
		change: func(_ *Offer, p Payload, _ time.Time) (Change, error) {
			c := Change{To: StatusChargingStarted}
			if connector := strings.TrimSpace(p.Connector); connector != "" {
				c.ChargerConnector = &connector
			}

			return c, nil
		},
	},
	ActionConfirmCharging: {
		from:  []Status{StatusChargingStarted},
		to:    StatusCharging,
		actor: actorBuyer,
	},
	ActionReportIssue: {
		from:     []Status{StatusChargingStarted},
		to:       StatusChargingStarted,
		actor:    actorBuyer,
		validate: requireReason,
	},
	ActionDeclareKwh: {
		from:  []Status{StatusCharging},
		to:    StatusChargingCompleted,
		actor: actorBuyer,
		validate: func(p Payload) error {
			if !p.Kwh.IsPositive() {
				return fmt.Errorf("%w: kwh must be a positive number", apperr.ErrValidation)
			}

			if !FitsPlaces(p.Kwh, KwhPlaces) {
				return fmt.Errorf("%w: kwh accepts at most %d decimals", apperr.ErrValidation, KwhPlaces)
			}

			return nil
		},
		change: func(o *Offer, p Payload, _ time.Time) (Change, error) {
			if o.KwhCharged.Valid {
				return Change{}, fmt.Errorf("%w: kwh already declared", apperr.ErrStateConflict)
			}

			return Change{To: StatusChargingCompleted, KwhCharged: &p.Kwh}, nil
		},
	},
	ActionSubmitPhoto: {
		from:  []Status{StatusChargingCompleted},
		to:    StatusKwhConfirmed,
		actor: actorBuyer,
		validate: func(p Payload) error {
			if strings.TrimSpace(p.Photo) == "" {
				return fmt.Errorf("%w: photo reference is required", apperr.ErrValidation)
			}

			return nil
		},
		change: func(_ *Offer, p Payload, _ time.Time) (Change, error) {
			return Change{To: StatusKwhConfirmed, ChargerPhoto: new(strings.TrimSpace(p.Photo))}, nil
		},
	},
	ActionConfirmKwh: {
		from:  []Status{StatusKwhConfirmed},
		to:    StatusKwhConfirmed,
		actor: actorSeller,
	},
	ActionDisputeKwh: {
		from:     []Status{StatusKwhConfirmed},
		to:       StatusKwhConfirmed,
		actor:    actorSeller,
		validate: requireReason,
	},
	ActionSetPrice: {
		from:  []Status{StatusKwhConfirmed},
		to:    StatusPaymentPending,
		actor: actorSeller,
		validate: func(p Payload) error {
			if !p.UnitPrice.IsPositive() {
				return fmt.Errorf("%w: unit price must be a positive number", apperr.ErrValidation)
			}

			if !FitsPlaces(p.UnitPrice, PricePlaces) {
				return fmt.Errorf("%w: unit price accepts at most %d decimals", apperr.ErrValidation, PricePlaces)
			}

			return nil
		},
		change: func(o *Offer, p Payload, _ time.Time) (Change, error) {
			if !o.KwhCharged.Valid {
				return Change{}, fmt.Errorf("%w: kwh not declared yet", apperr.ErrStateConflict)
			}

			if o.TotalAmount.Valid {
				return Change{}, fmt.Errorf("%w: total amount already set", apperr.ErrStateConflict)
			}

			total := o.KwhCharged.Decimal.Mul(p.UnitPrice)

			return Change{To: StatusPaymentPending, UnitPrice: &p.UnitPrice, TotalAmount: &total}, nil
		},
	},
	ActionMarkPaid: {
		from:  []Status{StatusPaymentPending},
		to:    StatusPaymentSent,
		actor: actorBuyer,
		validate: func(p Payload) error {
			if strings.TrimSpace(p.Method) == "" {
				return fmt.Errorf("%w: payment method is required", apperr.ErrValidation)
			}

			return nil
		},
		change: func(_ *Offer, p Payload, _ time.Time) (Change, error) {
			return Change{To: StatusPaymentSent, PaymentMethod: new(strings.TrimSpace(p.Method))}, nil
		},
	},
	ActionConfirmPayment: {
		from:  []Status{StatusPaymentSent},
		to:    StatusCompleted,
		actor: actorSeller,
		change: func(_ *Offer, _ Payload, now time.Time) (Change, error) {
			return Change{To: StatusCompleted, CompletedAt: &now}, nil
		},
	},
	ActionDisputePayment: {
		from:     []Status{StatusPaymentSent},
		to:       StatusDisputed,
		actor:    actorSeller,
		validate: requireReason,
		change: func(_ *Offer, p Payload, _ time.Time) (Change, error) {
			return Change{To: StatusDisputed, RejectionReason: new(strings.TrimSpace(p.Reason))}, nil
		},
	},
	ActionExpire: {
		from:  []Status{StatusPending, StatusAccepted},
		to:    StatusCancelled,
		actor: actorSystem,
		change: func(_ *Offer, _ Payload, _ time.Time) (Change, error) {
			return Change{To: StatusCancelled, RejectionReason: new(ExpiredReason)}, nil
		},
	},
}

func requireReason(p Payload) error {
	if strings.TrimSpace(p.Reason) == "" {
		return fmt.Errorf("%w: reason is required", apperr.ErrValidation)
	}

	return nil
}

// Next returns the status action leads to from s, and whether the pair is a
// legal edge at all.
func Next(s Status, a Action) (Status, bool) {
	e, ok := transitions[a]
	if !ok || !e.allows(s) {
		return "", false
	}

	return e.to, true
}

// Actions lists the actions that are legal from s.
func Actions(s Status) []Action {
	var out []Action

	for _, a := range actionOrder {
		if transitions[a].allows(s) {
			out = append(out, a)
		}
	}

	return out
}

var actionOrder = []Action{
	ActionAccept, ActionReject, ActionBuyerReady, ActionBuyerCancel, ActionStartCharging,
	ActionConfirmCharging, ActionReportIssue, ActionDeclareKwh, ActionSubmitPhoto, ActionConfirmKwh,
	ActionDisputeKwh, ActionSetPrice, ActionMarkPaid, ActionConfirmPayment, ActionDisputePayment, ActionExpire,
}

// Decimal places stored for kWh quantities and unit prices. Totals keep the
// full product of the two.
const (
	KwhPlaces   int32 = 3
	PricePlaces int32 = 4
)

// FitsPlaces reports whether d has no significant digits past places.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// ParseAction validates a raw action name.
func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("%w: unknown action %q", apperr.ErrValidation, raw)
	}

	return a, nil
}

func (e edge) apply(o *Offer, p Payload, now time.Time) (Change, error) {
	if e.change == nil {
		return Change{To: e.to}, nil
	}

	return e.change(o, p, now)
}
