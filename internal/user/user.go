package user

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a chat account taking part in the marketplace.
type User struct {
	UserID                 int64
	Username               string
	FirstName              string
	LastName               string
	Reputation             Reputation
	Balance                decimal.Decimal // kWh credit
	ActiveSellAnnouncement *uuid.UUID
	ActiveBuyAnnouncement  *uuid.UUID
	CreatedAt              time.Time
	UpdatedAt              *time.Time
}

// Reputation counts the ratings a user received from counterparts.
type Reputation struct {
	Positive int
	Total    int
}

const (
	trustedPercentage  = 90
	trustedMinRatings  = 5
	whitelistMinPraise = 3
)

// Percentage is the rounded share of positive ratings. It is undefined for
// users without ratings.
func (r Reputation) Percentage() (int, bool) {
	if r.Total <= 0 {
		return 0, false
	}

	return int(math.Round(float64(r.Positive) * 100 / float64(r.Total))), true
}

// Trusted reports whether the user may sell without manual review.
func (r Reputation) Trusted(whitelisted bool) bool {
	if pct, ok := r.Percentage(); ok && pct >= trustedPercentage && r.Total >= trustedMinRatings {
		return true
	}

	return whitelisted && r.Positive >= whitelistMinPraise
}

// DisplayName picks the best available name for messages.
func (u *User) DisplayName() string {
	switch {
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}

	return "utente"
}
