package donation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	donationhttp "github.com/MrJamesThe3rd/kwhmarket/internal/http/donation"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

const (
	admin int64 = 1
	donor int64 = 9
)

type fixture struct {
	ctrl   *gomock.Controller
	ledger *ledger.MockRepository
	offers *offer.MockRepository
	router http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	notifier := notify.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ledgerRepo := ledger.NewMockRepository(ctrl)
	offerRepo := offer.NewMockRepository(ctrl)

	svc := ledger.NewService(ledgerRepo, notifier, zap.NewNop())
	engine := offer.NewEngine(offerRepo, notifier, zap.NewNop(), offer.WithAdmin(admin))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := strconv.ParseInt(r.Header.Get("X-User"), 10, 64)
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
		})
	})
	r.Route("/donations", donationhttp.NewHandler(svc, engine, admin).Routes)

	return fixture{ctrl: ctrl, ledger: ledgerRepo, offers: offerRepo, router: r}
}

func (f fixture) do(method, path string, caller int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", strconv.FormatInt(caller, 10))

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Donate(t *testing.T) {
	tests := []struct {
		name       string
		caller     int64
		body       string
		setupMock  func(m *ledger.MockRepository)
		wantStatus int
	}{
		{
			name:   "Success",
			caller: donor,
			body:   `{"kwh":"12.5"}`,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().CreateDonation(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, d *ledger.Donation) error {
					assert.Equal(t, donor, d.DonorID)
					assert.Equal(t, admin, d.AdminID)
					assert.True(t, d.KwhAmount.Equal(decimal.RequireFromString("12.5")))

					d.ID = uuid.New()

					return nil
				})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "NonPositive",
			caller:     donor,
			body:       `{"kwh":"0"}`,
			setupMock:  func(m *ledger.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "AdminToSelf",
			caller:     admin,
			body:       `{"kwh":"3"}`,
			setupMock:  func(m *ledger.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.ledger)

			rec := f.do(http.MethodPost, "/donations/", tt.caller, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Summary(t *testing.T) {
	t.Run("Admin", func(t *testing.T) {
		f := newFixture(t)
		f.ledger.EXPECT().Summary(gomock.Any(), admin).Return([]ledger.DonorSummary{
			{DonorID: donor, Available: decimal.NewFromInt(5), Used: decimal.NewFromInt(3), Donations: 2},
		}, nil)

		rec := f.do(http.MethodGet, "/donations/summary", admin, "")

		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "5", body[0]["available"])
		assert.Equal(t, "3", body[0]["used"])
	})

	t.Run("NotAdmin", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/donations/summary", donor, "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_Donor(t *testing.T) {
	f := newFixture(t)
	f.ledger.EXPECT().SumDonations(gomock.Any(), admin, donor, false).Return(decimal.NewFromInt(4), nil)
	f.ledger.EXPECT().SumDonations(gomock.Any(), admin, donor, true).Return(decimal.NewFromInt(6), nil)
	f.ledger.EXPECT().ListDonations(gomock.Any(), admin, donor).Return([]*ledger.Donation{
		{ID: uuid.New(), DonorID: donor, AdminID: admin, KwhAmount: decimal.NewFromInt(4)},
		{ID: uuid.New(), DonorID: donor, AdminID: admin, KwhAmount: decimal.NewFromInt(6), IsUsed: true},
	}, nil)

	rec := f.do(http.MethodGet, "/donations/donors/9", admin, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Available string           `json:"available"`
		Used      string           `json:"used"`
		Donations []map[string]any `json:"donations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "4", body.Available)
	assert.Equal(t, "6", body.Used)
	assert.Len(t, body.Donations, 2)
}

func TestHandler_Settle(t *testing.T) {
	bought := func(buyerID int64, status offer.Status) *offer.Offer {
		return &offer.Offer{
			ID:         uuid.New(),
			BuyerID:    buyerID,
			SellerID:   donor,
			Status:     status,
			KwhCharged: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		}
	}

	t.Run("CoversAdminPurchase", func(t *testing.T) {
		f := newFixture(t)
		o := bought(admin, offer.StatusCompleted)

		consume := ledger.NewMockConsumeTx(f.ctrl)
		consume.EXPECT().UsedForOffer(gomock.Any(), o.ID).Return(decimal.Zero, 0, nil)
		consume.EXPECT().ListUnused(gomock.Any(), admin, donor).Return(nil, nil)
		consume.EXPECT().Commit().Return(nil)
		consume.EXPECT().Rollback().Return(nil).AnyTimes()

		f.offers.EXPECT().GetOffer(gomock.Any(), o.ID).Return(o, nil)
		f.ledger.EXPECT().BeginConsume(gomock.Any(), admin, donor).Return(consume, nil)

		rec := f.do(http.MethodPost, "/donations/settle/"+o.ID.String(), admin, "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("NotBoughtByAdmin", func(t *testing.T) {
		f := newFixture(t)
		o := bought(5, offer.StatusCompleted)

		f.offers.EXPECT().GetOffer(gomock.Any(), o.ID).Return(o, nil)

		rec := f.do(http.MethodPost, "/donations/settle/"+o.ID.String(), admin, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotCompleted", func(t *testing.T) {
		f := newFixture(t)
		o := bought(admin, offer.StatusPaymentSent)

		f.offers.EXPECT().GetOffer(gomock.Any(), o.ID).Return(o, nil)

		rec := f.do(http.MethodPost, "/donations/settle/"+o.ID.String(), admin, "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("NotAdmin", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/donations/settle/"+uuid.NewString(), donor, "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
