package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

type transactionResponse struct {
	ID            uuid.UUID          `json:"id"`
	OfferID       uuid.UUID          `json:"offer_id"`
	SellerID      int64              `json:"seller_id"`
	BuyerID       int64              `json:"buyer_id"`
	KwhAmount     decimal.Decimal    `json:"kwh_amount"`
	UnitPrice     decimal.Decimal    `json:"unit_price"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Status        transaction.Status `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		OfferID:       tx.OfferID,
		SellerID:      tx.SellerID,
		BuyerID:       tx.BuyerID,
		KwhAmount:     tx.KwhAmount,
		UnitPrice:     tx.UnitPrice,
		TotalAmount:   tx.TotalAmount,
		PaymentMethod: tx.PaymentMethod,
		Status:        tx.Status,
		CreatedAt:     tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
