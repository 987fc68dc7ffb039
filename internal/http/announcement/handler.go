package announcement

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/announcement"
	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
)

type Handler struct {
	svc     *announcement.Service
	adminID int64
}

func NewHandler(svc *announcement.Service, adminID int64) *Handler {
	return &Handler{svc: svc, adminID: adminID}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.publish)
	r.Get("/active", h.active)
	r.Get("/{id}", h.get)
	r.Post("/{id}/archive", h.archive)
}

type publishRequest struct {
	Type          announcement.Type          `json:"type" validate:"required,oneof=sell buy"`
	Price         string                     `json:"price" validate:"required,max=100"`
	ConnectorType announcement.ConnectorType `json:"connector_type" validate:"required,oneof=AC DC both"`
	Brands        []string                   `json:"brands" validate:"max=20,dive,max=50"`
	Location      string                     `json:"location" validate:"required,max=200"`
}

type announcementResponse struct {
	ID            uuid.UUID                  `json:"id"`
	Type          announcement.Type          `json:"type"`
	OwnerID       int64                      `json:"owner_id"`
	Price         string                     `json:"price"`
	ConnectorType announcement.ConnectorType `json:"connector_type"`
	Brands        []string                   `json:"brands"`
	Location      string                     `json:"location"`
	Status        announcement.Status        `json:"status"`
	OfferIDs      []uuid.UUID                `json:"offer_ids"`
	CreatedAt     time.Time                  `json:"created_at"`
}

func toResponse(a *announcement.Announcement) announcementResponse {
	resp := announcementResponse{
		ID:            a.ID,
		Type:          a.Type,
		OwnerID:       a.OwnerID,
		Price:         a.Price,
		ConnectorType: a.ConnectorType,
		Brands:        a.Brands,
		Location:      a.Location,
		Status:        a.Status,
		OfferIDs:      a.OfferIDs,
		CreatedAt:     a.CreatedAt,
	}

	if resp.Brands == nil {
		resp.Brands = []string{}
	}

	if resp.OfferIDs == nil {
		resp.OfferIDs = []uuid.UUID{}
	}

	return resp
}

// publish replaces the caller's active listing of the same type.
func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	a, err := h.svc.Publish(r.Context(), announcement.CreateParams{
		Type:          req.Type,
		OwnerID:       middleware.UserID(r),
		Price:         strings.TrimSpace(req.Price),
		ConnectorType: req.ConnectorType,
		Brands:        req.Brands,
		Location:      strings.TrimSpace(req.Location),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) active(w http.ResponseWriter, r *http.Request) {
	owner := middleware.UserID(r)

	if s := r.URL.Query().Get("user"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respond.Error(w, fmt.Errorf("%w: invalid user: %v", apperr.ErrValidation, err))
			return
		}

		owner = id
	}

	t := announcement.Type(r.URL.Query().Get("type"))
	if t == "" {
		t = announcement.TypeSell
	}

	a, err := h.svc.GetActive(r.Context(), owner, t)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if a == nil {
		respond.Error(w, announcement.ErrNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(a))
}

// archive withdraws a listing. Only its owner or the admin may do so.
func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if caller := middleware.UserID(r); caller != a.OwnerID && caller != h.adminID {
		respond.Error(w, apperr.ErrForbidden)
		return
	}

	if err := h.svc.Archive(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
