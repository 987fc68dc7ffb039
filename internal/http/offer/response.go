package offer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

type feedbackResponse struct {
	Positive bool   `json:"positive"`
	Comment  string `json:"comment,omitempty"`
}

type offerResponse struct {
	ID               uuid.UUID         `json:"id"`
	AnnouncementID   *uuid.UUID        `json:"announcement_id,omitempty"`
	BuyerID          int64             `json:"buyer_id"`
	SellerID         int64             `json:"seller_id"`
	ScheduledAt      time.Time         `json:"scheduled_at"`
	Location         string            `json:"location"`
	Brand            string            `json:"brand,omitempty"`
	AdditionalInfo   string            `json:"additional_info,omitempty"`
	Status           offer.Status      `json:"status"`
	Actions          []offer.Action    `json:"actions"`
	KwhCharged       *decimal.Decimal  `json:"kwh_charged,omitempty"`
	UnitPrice        *decimal.Decimal  `json:"unit_price,omitempty"`
	TotalAmount      *decimal.Decimal  `json:"total_amount,omitempty"`
	PaymentMethod    string            `json:"payment_method,omitempty"`
	RejectionReason  string            `json:"rejection_reason,omitempty"`
	ChargerConnector string            `json:"charger_connector,omitempty"`
	ChargerPhoto     string            `json:"charger_photo,omitempty"`
	BuyerFeedback    *feedbackResponse `json:"buyer_feedback,omitempty"`
	SellerFeedback   *feedbackResponse `json:"seller_feedback,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

func toFeedback(f *offer.Feedback) *feedbackResponse {
	if f == nil {
		return nil
	}

	return &feedbackResponse{Positive: f.Positive, Comment: f.Comment}
}

func toResponse(o *offer.Offer) offerResponse {
	actions := offer.Actions(o.Status)
	if actions == nil {
		actions = []offer.Action{}
	}

	return offerResponse{
		ID:               o.ID,
		AnnouncementID:   o.AnnouncementID,
		BuyerID:          o.BuyerID,
		SellerID:         o.SellerID,
		ScheduledAt:      o.ScheduledAt,
		Location:         o.Location,
		Brand:            o.Brand,
		AdditionalInfo:   o.AdditionalInfo,
		Status:           o.Status,
		Actions:          actions,
		KwhCharged:       nullable(o.KwhCharged),
		UnitPrice:        nullable(o.UnitPrice),
		TotalAmount:      nullable(o.TotalAmount),
		PaymentMethod:    o.PaymentMethod,
		RejectionReason:  o.RejectionReason,
		ChargerConnector: o.ChargerConnector,
		ChargerPhoto:     o.ChargerPhoto,
		BuyerFeedback:    toFeedback(o.BuyerFeedback),
		SellerFeedback:   toFeedback(o.SellerFeedback),
		CreatedAt:        o.CreatedAt,
		ExpiresAt:        o.ExpiresAt,
		CompletedAt:      o.CompletedAt,
	}
}

func toResponseList(offers []*offer.Offer) []offerResponse {
	resp := make([]offerResponse, len(offers))
	for i, o := range offers {
		resp[i] = toResponse(o)
	}

	return resp
}
