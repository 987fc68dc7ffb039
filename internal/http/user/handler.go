package user

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/user"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/me", h.ensure)
	r.Get("/{id}", h.get)
}

type profileRequest struct {
	Username  string `json:"username" validate:"max=64"`
	FirstName string `json:"first_name" validate:"max=128"`
	LastName  string `json:"last_name" validate:"max=128"`
}

type userResponse struct {
	UserID                 int64           `json:"user_id"`
	Username               string          `json:"username,omitempty"`
	FirstName              string          `json:"first_name,omitempty"`
	LastName               string          `json:"last_name,omitempty"`
	DisplayName            string          `json:"display_name"`
	PositiveRatings        int             `json:"positive_ratings"`
	TotalRatings           int             `json:"total_ratings"`
	Percentage             *int            `json:"percentage,omitempty"`
	Whitelisted            bool            `json:"whitelisted"`
	Trusted                bool            `json:"trusted"`
	Balance                decimal.Decimal `json:"balance"`
	ActiveSellAnnouncement *uuid.UUID      `json:"active_sell_announcement,omitempty"`
	ActiveBuyAnnouncement  *uuid.UUID      `json:"active_buy_announcement,omitempty"`
}

func toResponse(u *user.User, whitelisted bool) userResponse {
	resp := userResponse{
		UserID:                 u.UserID,
		Username:               u.Username,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		DisplayName:            u.DisplayName(),
		PositiveRatings:        u.Reputation.Positive,
		TotalRatings:           u.Reputation.Total,
		Whitelisted:            whitelisted,
		Trusted:                u.Reputation.Trusted(whitelisted),
		Balance:                u.Balance,
		ActiveSellAnnouncement: u.ActiveSellAnnouncement,
		ActiveBuyAnnouncement:  u.ActiveBuyAnnouncement,
	}

	if pct, ok := u.Reputation.Percentage(); ok {
		resp.Percentage = &pct
	}

	return resp
}

// ensure registers the caller or refreshes their profile.
func (h *Handler) ensure(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	u, err := h.svc.Ensure(r.Context(), user.Profile{
		UserID:    middleware.UserID(r),
		Username:  strings.TrimSpace(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.write(w, r, u)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid user id", apperr.ErrValidation))
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.write(w, r, u)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, u *user.User) {
	whitelisted, err := h.svc.IsWhitelisted(r.Context(), u.UserID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u, whitelisted))
}
