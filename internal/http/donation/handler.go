package donation

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

type Handler struct {
	ledger  *ledger.Service
	offers  *offer.Engine
	adminID int64
}

func NewHandler(ledgerSvc *ledger.Service, offers *offer.Engine, adminID int64) *Handler {
	return &Handler{ledger: ledgerSvc, offers: offers, adminID: adminID}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.donate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.adminID))

		r.Get("/summary", h.summary)
		r.Get("/donors/{id}", h.donor)
		r.Post("/settle/{offerID}", h.settle)
	})
}

type donateRequest struct {
	Kwh decimal.Decimal `json:"kwh"`
}

type donationResponse struct {
	ID            uuid.UUID       `json:"id"`
	DonorID       int64           `json:"donor_id"`
	AdminID       int64           `json:"admin_id"`
	KwhAmount     decimal.Decimal `json:"kwh_amount"`
	IsUsed        bool            `json:"is_used"`
	UsedInOfferID *uuid.UUID      `json:"used_in_offer_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toResponse(d *ledger.Donation) donationResponse {
	return donationResponse{
		ID:            d.ID,
		DonorID:       d.DonorID,
		AdminID:       d.AdminID,
		KwhAmount:     d.KwhAmount,
		IsUsed:        d.IsUsed,
		UsedInOfferID: d.UsedInOfferID,
		CreatedAt:     d.CreatedAt,
	}
}

type summaryResponse struct {
	DonorID   int64           `json:"donor_id"`
	Available decimal.Decimal `json:"available"`
	Used      decimal.Decimal `json:"used"`
	Donations int             `json:"donations"`
}

type donorResponse struct {
	DonorID   int64              `json:"donor_id"`
	Available decimal.Decimal    `json:"available"`
	Used      decimal.Decimal    `json:"used"`
	Donations []donationResponse `json:"donations"`
}

// donate records kWh credit from the caller to the admin.
func (h *Handler) donate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	d, err := h.ledger.Donate(r.Context(), middleware.UserID(r), h.adminID, req.Kwh)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ledger.Summary(r.Context(), h.adminID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]summaryResponse, len(rows))
	for i, s := range rows {
		resp[i] = summaryResponse(s)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) donor(w http.ResponseWriter, r *http.Request) {
	donorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid donor id", apperr.ErrValidation))
		return
	}

	available, err := h.ledger.Available(r.Context(), h.adminID, donorID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	used, err := h.ledger.Used(r.Context(), h.adminID, donorID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	donations, err := h.ledger.Donations(r.Context(), h.adminID, donorID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := donorResponse{
		DonorID:   donorID,
		Available: available,
		Used:      used,
		Donations: make([]donationResponse, len(donations)),
	}

	for i, d := range donations {
		resp.Donations[i] = toResponse(d)
	}

	respond.JSON(w, http.StatusOK, resp)
}

// settle retries covering a completed admin purchase with donations. It is
// safe to call more than once.
func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "offerID"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	o, err := h.offers.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if o.BuyerID != h.adminID {
		respond.Error(w, fmt.Errorf("%w: offer %s was not bought by the admin", apperr.ErrValidation, o.ID))
		return
	}

	if err := h.ledger.Settle(r.Context(), o); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
