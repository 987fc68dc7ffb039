package export

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/export"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

type Handler struct {
	svc     *export.Service
	adminID int64
}

func NewHandler(svc *export.Service, adminID int64) *Handler {
	return &Handler{svc: svc, adminID: adminID}
}

func (h *Handler) Routes(r chi.Router) {
	r.Use(middleware.RequireAdmin(h.adminID))
	r.Get("/transactions.csv", h.csv)
	r.Get("/report", h.report)
}

type reportResponse struct {
	Count  int             `json:"count"`
	Kwh    decimal.Decimal `json:"kwh"`
	Amount decimal.Decimal `json:"amount"`
	Text   string          `json:"text"`
}

const dateLayout = "2006-01-02"

// parseFilter reads ?from, ?to (inclusive days), ?user and ?status.
func parseFilter(q url.Values) (export.Filter, error) {
	var f export.Filter

	if s := q.Get("from"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, fmt.Errorf("%w: invalid from: %v", apperr.ErrValidation, err)
		}

		f.StartDate = d
	}

	if s := q.Get("to"); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return f, fmt.Errorf("%w: invalid to: %v", apperr.ErrValidation, err)
		}

		f.EndDate = d.AddDate(0, 0, 1)
	}

	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && !f.StartDate.Before(f.EndDate) {
		return f, fmt.Errorf("%w: from is after to", apperr.ErrValidation)
	}

	if s := q.Get("user"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: invalid user: %v", apperr.ErrValidation, err)
		}

		f.UserID = &id
	}

	if s := q.Get("status"); s != "" {
		status := transaction.Status(s)
		if status != transaction.StatusCompleted && status != transaction.StatusDisputed {
			return f, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, s)
		}

		f.Status = &status
	}

	return f, nil
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, err)
		return
	}

	txs, err := h.svc.Transactions(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", time.Now().Format("20060102")))

	if err := export.WriteCSV(w, txs); err != nil {
		zap.L().Error("failed to write csv export", zap.Int("transactions", len(txs)), zap.Error(err))
	}
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		respond.Error(w, err)
		return
	}

	txs, err := h.svc.Transactions(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}

	tot := export.Sum(txs)

	respond.JSON(w, http.StatusOK, reportResponse{
		Count:  tot.Count,
		Kwh:    tot.Kwh,
		Amount: tot.Amount,
		Text:   export.Report(txs),
	})
}
