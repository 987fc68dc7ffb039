package export_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kwhmarket/internal/export"
	exporthttp "github.com/MrJamesThe3rd/kwhmarket/internal/http/export"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

const admin int64 = 1

func serve(t *testing.T, setupMock func(m *transaction.MockRepository), path string, caller int64) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	setupMock(repo)

	svc := export.NewService(transaction.NewService(repo))

	r := chi.NewRouter()
	r.Route("/export", exporthttp.NewHandler(svc, admin).Routes)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), caller))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func sample(day int) *transaction.Transaction {
	return &transaction.Transaction{
		ID:            uuid.New(),
		OfferID:       uuid.New(),
		SellerID:      9,
		BuyerID:       7,
		KwhAmount:     decimal.RequireFromString("10"),
		UnitPrice:     decimal.RequireFromString("0.3"),
		TotalAmount:   decimal.RequireFromString("3"),
		PaymentMethod: "satispay",
		Status:        transaction.StatusCompleted,
		CreatedAt:     time.Date(2026, 3, day, 18, 0, 0, 0, time.UTC),
	}
}

func TestHandler_CSV(t *testing.T) {
	tests := []struct {
		name      string
		caller    int64
		query     string
		setupMock func(m *transaction.MockRepository)
		wantCode  int
		wantRows  int
	}{
		{
			name:   "Success",
			caller: admin,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{sample(2), sample(1)}, nil)
			},
			wantCode: http.StatusOK,
			wantRows: 2,
		},
		{
			name:   "ToIsInclusive",
			caller: admin,
			query:  "?from=2026-03-02&to=2026-03-02",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).
					Return([]*transaction.Transaction{sample(3), sample(2), sample(1)}, nil)
			},
			wantCode: http.StatusOK,
			wantRows: 1,
		},
		{
			name:      "NotAdmin",
			caller:    7,
			setupMock: func(m *transaction.MockRepository) {},
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "BadDate",
			caller:    admin,
			query:     "?from=01/03/2026",
			setupMock: func(m *transaction.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "InvertedRange",
			caller:    admin,
			query:     "?from=2026-03-05&to=2026-03-01",
			setupMock: func(m *transaction.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "UnknownStatus",
			caller:    admin,
			query:     "?status=pending",
			setupMock: func(m *transaction.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "RepoError",
			caller: admin,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.setupMock, "/export/transactions.csv"+tt.query, tt.caller)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

				lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
				assert.Len(t, lines, tt.wantRows+1)
			}
		})
	}
}

func TestHandler_Report(t *testing.T) {
	userID := int64(9)
	status := transaction.StatusCompleted

	rec := serve(t, func(m *transaction.MockRepository) {
		m.EXPECT().ListTransactions(gomock.Any(), transaction.ListFilter{UserID: &userID, Status: &status}).
			Return([]*transaction.Transaction{sample(1)}, nil)
	}, "/export/report?user=9&status=completed", admin)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count  int    `json:"count"`
		Kwh    string `json:"kwh"`
		Amount string `json:"amount"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "10", body.Kwh)
	assert.Equal(t, "3", body.Amount)
	assert.Contains(t, body.Text, "Totale: 1 scambi")
}
