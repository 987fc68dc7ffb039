package announcement

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSell Type = "sell"
	TypeBuy  Type = "buy"
)

func (t Type) Valid() bool {
	return t == TypeSell || t == TypeBuy
}

type ConnectorType string

const (
	ConnectorAC   ConnectorType = "AC"
	ConnectorDC   ConnectorType = "DC"
	ConnectorBoth ConnectorType = "both"
)

func (c ConnectorType) Valid() bool {
	switch c {
	case ConnectorAC, ConnectorDC, ConnectorBoth:
		return true
	}

	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

// Announcement is a listing published by a seller (or a buyer looking for
// charging). Listings are archived, never deleted.
type Announcement struct {
	ID            uuid.UUID
	Type          Type
	OwnerID       int64
	Price         string // free text, e.g. "0,30 €/kWh"
	ConnectorType ConnectorType
	Brands        []string
	Location      string
	Status        Status
	OfferIDs      []uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
