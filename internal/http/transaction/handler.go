package transaction

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

type Handler struct {
	svc     *transaction.Service
	adminID int64
}

func NewHandler(svc *transaction.Service, adminID int64) *Handler {
	return &Handler{svc: svc, adminID: adminID}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(middleware.RequireAdmin(h.adminID)).Post("/{id}/dispute", h.dispute)
}

// list returns the caller's transactions; the admin may list anyone's.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserID(r)
	filter := transaction.ListFilter{UserID: new(caller)}

	if caller == h.adminID {
		filter.UserID = nil

		if s := r.URL.Query().Get("user"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				respond.Error(w, fmt.Errorf("%w: invalid user: %v", apperr.ErrValidation, err))
				return
			}

			filter.UserID = new(id)
		}
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if caller := middleware.UserID(r); caller != tx.BuyerID && caller != tx.SellerID && caller != h.adminID {
		respond.Error(w, apperr.ErrForbidden)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) dispute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	if err := h.svc.MarkDisputed(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
