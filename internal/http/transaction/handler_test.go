package transaction_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	txhttp "github.com/MrJamesThe3rd/kwhmarket/internal/http/transaction"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

const admin int64 = 1

func serve(t *testing.T, setupMock func(m *transaction.MockRepository), method, path string, caller int64) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	setupMock(repo)

	r := chi.NewRouter()
	r.Route("/transactions", txhttp.NewHandler(transaction.NewService(repo), admin).Routes)

	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), caller))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_List(t *testing.T) {
	tests := []struct {
		name     string
		caller   int64
		query    string
		wantUser *int64
	}{
		{name: "ScopedToCaller", caller: 7, query: "?user=9", wantUser: new(int64(7))},
		{name: "AdminAll", caller: admin},
		{name: "AdminByUser", caller: admin, query: "?user=9", wantUser: new(int64(9))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, func(m *transaction.MockRepository) {
				m.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ any, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
						assert.Equal(t, tt.wantUser, filter.UserID)
						return nil, nil
					})
			}, http.MethodGet, "/transactions/"+tt.query, tt.caller)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, "[]", rec.Body.String())
		})
	}
}

func TestHandler_Get(t *testing.T) {
	tx := &transaction.Transaction{
		ID:          uuid.New(),
		OfferID:     uuid.New(),
		SellerID:    9,
		BuyerID:     7,
		KwhAmount:   decimal.RequireFromString("22.5"),
		UnitPrice:   decimal.RequireFromString("0.3"),
		TotalAmount: decimal.RequireFromString("6.75"),
		Status:      transaction.StatusCompleted,
	}

	tests := []struct {
		name       string
		caller     int64
		wantStatus int
	}{
		{name: "Buyer", caller: 7, wantStatus: http.StatusOK},
		{name: "Seller", caller: 9, wantStatus: http.StatusOK},
		{name: "Admin", caller: admin, wantStatus: http.StatusOK},
		{name: "Stranger", caller: 3, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
			}, http.MethodGet, "/transactions/"+tx.ID.String(), tt.caller)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Dispute(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		caller     int64
		setupMock  func(m *transaction.MockRepository)
		wantStatus int
	}{
		{
			name:   "Admin",
			caller: admin,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, Status: transaction.StatusCompleted}, nil)
				m.EXPECT().MarkDisputed(gomock.Any(), id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:   "AlreadyDisputed",
			caller: admin,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, Status: transaction.StatusDisputed}, nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "NotAdmin",
			caller:     7,
			setupMock:  func(m *transaction.MockRepository) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "NotFound",
			caller: admin,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.setupMock, http.MethodPost, "/transactions/"+id.String()+"/dispute", tt.caller)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_InvalidID(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "Get", method: http.MethodGet, path: "/transactions/42"},
		{name: "Dispute", method: http.MethodPost, path: "/transactions/42/dispute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, func(m *transaction.MockRepository) {}, tt.method, tt.path, admin)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"validation failed: invalid id: invalid UUID length: 2"}`, rec.Body.String())
		})
	}
}
