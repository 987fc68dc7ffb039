package offer

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/feedback"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

type Handler struct {
	engine   *offer.Engine
	feedback *feedback.Tracker
	adminID  int64
}

func NewHandler(engine *offer.Engine, tracker *feedback.Tracker, adminID int64) *Handler {
	return &Handler{engine: engine, feedback: tracker, adminID: adminID}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/callback", h.callback)
	r.Get("/{id}", h.get)
	r.Post("/{id}/transitions", h.transition)
	r.Post("/{id}/feedback", h.submitFeedback)
}

type createOfferRequest struct {
	AnnouncementID   *uuid.UUID `json:"announcement_id"`
	SellerID         int64      `json:"seller_id" validate:"required,gt=0"`
	ScheduledAt      time.Time  `json:"scheduled_at" validate:"required"`
	Location         string     `json:"location" validate:"required,max=200"`
	Brand            string     `json:"brand" validate:"max=100"`
	AdditionalInfo   string     `json:"additional_info" validate:"max=1000"`
	ChargerConnector string     `json:"charger_connector" validate:"omitempty,oneof=AC DC both"`
}

// create opens an offer from the caller, acting as buyer, to a seller.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	o, err := h.engine.Create(r.Context(), offer.CreateParams{
		AnnouncementID:   req.AnnouncementID,
		BuyerID:          middleware.UserID(r),
		SellerID:         req.SellerID,
		ScheduledAt:      req.ScheduledAt,
		Location:         strings.TrimSpace(req.Location),
		Brand:            strings.TrimSpace(req.Brand),
		AdditionalInfo:   strings.TrimSpace(req.AdditionalInfo),
		ChargerConnector: req.ChargerConnector,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(o))
}

// list returns the caller's offers. The admin sees every offer unless a user
// is given.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserID(r)
	filter := offer.ListFilter{UserID: new(caller)}

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
		status := offer.Status(s)
		if !status.Valid() {
			respond.Error(w, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, s))
			return
		}

		filter.Status = new(status)
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respond.Error(w, fmt.Errorf("%w: limit must be a positive integer, got %q", apperr.ErrValidation, s))
			return
		}

		filter.Limit = n
	}

	offers, err := h.engine.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(offers))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, ok := h.load(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(o))
}

// load fetches the offer named in the path and checks that the caller takes
// part in it.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*offer.Offer, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return nil, false
	}

	o, err := h.engine.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return nil, false
	}

	caller := middleware.UserID(r)
	if _, ok := o.SideOf(caller); !ok && caller != h.adminID {
		respond.Error(w, apperr.ErrForbidden)
		return nil, false
	}

	return o, true
}

type transitionRequest struct {
	Action    offer.Action        `json:"action" validate:"required"`
	Expected  offer.Status        `json:"expected_status" validate:"required"`
	Reason    string              `json:"reason" validate:"max=500"`
	Kwh       decimal.NullDecimal `json:"kwh"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	Method    string              `json:"payment_method" validate:"max=100"`
	Photo     string              `json:"photo" validate:"max=500"`
	Connector string              `json:"connector" validate:"max=50"`
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	var req transitionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	action, err := offer.ParseAction(string(req.Action))
	if err != nil {
		respond.Error(w, err)
		return
	}

	p := offer.Payload{
		ActorID:   middleware.UserID(r),
		Reason:    strings.TrimSpace(req.Reason),
		Method:    strings.TrimSpace(req.Method),
		Photo:     req.Photo,
		Connector: req.Connector,
	}

	if req.Kwh.Valid {
		p.Kwh = req.Kwh.Decimal
	}

	if req.UnitPrice.Valid {
		p.UnitPrice = req.UnitPrice.Decimal
	}

	o, err := h.engine.Transition(r.Context(), id, action, p, req.Expected)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(o))
}

type callbackRequest struct {
	Data string `json:"data" validate:"required,max=128"`
}

// inputResponse answers a button whose action needs a value. The client asks
// Prompt and posts the answer in Field to /offers/{id}/transitions.
type inputResponse struct {
	OfferID  uuid.UUID    `json:"offer_id"`
	Action   offer.Action `json:"action"`
	Expected offer.Status `json:"expected_status"`
	Field    string       `json:"field"`
	Prompt   string       `json:"prompt"`
}

// callback handles a pressed chat button. Offer buttons run a transition, or
// answer 202 with the value to collect when the action needs one. Rating
// buttons record feedback.
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	caller := middleware.UserID(r)

	if strings.HasPrefix(req.Data, "feedback:") {
		id, positive, err := feedback.ParseCallback(req.Data)
		if err != nil {
			respond.Error(w, err)
			return
		}

		h.rate(w, r, id, caller, positive, "")

		return
	}

	action, id, expected, err := offer.ParseCallback(req.Data)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if in, ok := offer.InputFor(action); ok {
		respond.JSON(w, http.StatusAccepted, inputResponse{
			OfferID:  id,
			Action:   action,
			Expected: expected,
			Field:    in.Field,
			Prompt:   in.Prompt,
		})

		return
	}

	o, err := h.engine.Transition(r.Context(), id, action, offer.Payload{ActorID: caller}, expected)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(o))
}

type feedbackRequest struct {
	Positive *bool  `json:"positive" validate:"required"`
	Comment  string `json:"comment" validate:"max=500"`
}

func (h *Handler) submitFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, fmt.Errorf("%w: invalid id: %v", apperr.ErrValidation, err))
		return
	}

	var req feedbackRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	h.rate(w, r, id, middleware.UserID(r), *req.Positive, req.Comment)
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request, id uuid.UUID, caller int64, positive bool, comment string) {
	o, err := h.engine.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	side, ok := o.SideOf(caller)
	if !ok {
		respond.Error(w, apperr.ErrForbidden)
		return
	}

	if err := h.feedback.Submit(r.Context(), id, side, caller, positive, comment); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
