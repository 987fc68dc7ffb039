package announcement_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kwhmarket/internal/announcement"
	announcementhttp "github.com/MrJamesThe3rd/kwhmarket/internal/http/announcement"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
)

const (
	admin int64 = 1
	owner int64 = 9
)

func serve(t *testing.T, setupMock func(m *announcement.MockRepository, ltx *announcement.MockListingTx), method, path string, caller int64, body string) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := announcement.NewMockRepository(ctrl)
	setupMock(repo, announcement.NewMockListingTx(ctrl))

	r := chi.NewRouter()
	r.Route("/announcements", announcementhttp.NewHandler(announcement.NewService(repo), admin).Routes)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), caller))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Publish(t *testing.T) {
	t.Run("ReplacesActiveListing", func(t *testing.T) {
		rec := serve(t, func(m *announcement.MockRepository, ltx *announcement.MockListingTx) {
			m.EXPECT().BeginListing(gomock.Any(), owner, announcement.TypeSell).Return(ltx, nil)
			gomock.InOrder(
				ltx.EXPECT().ArchiveActive(gomock.Any(), owner, announcement.TypeSell).Return(nil),
				ltx.EXPECT().CreateAnnouncement(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, a *announcement.Announcement) error {
					assert.Equal(t, []string{"Tesla", "Kia"}, a.Brands)
					a.ID = uuid.New()

					return nil
				}),
				ltx.EXPECT().SetActivePointer(gomock.Any(), owner, announcement.TypeSell, gomock.Any()).Return(nil),
				ltx.EXPECT().Commit().Return(nil),
			)
			ltx.EXPECT().Rollback().Return(nil).AnyTimes()
		}, http.MethodPost, "/announcements/", owner,
			`{"type":"sell","price":"0,30 €/kWh","connector_type":"DC","brands":["Tesla"," Kia "],"location":"Milano"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "active", body["status"])
		assert.Equal(t, float64(owner), body["owner_id"])
	})

	t.Run("UnknownType", func(t *testing.T) {
		rec := serve(t, func(*announcement.MockRepository, *announcement.MockListingTx) {}, http.MethodPost, "/announcements/", owner,
			`{"type":"swap","price":"1","connector_type":"DC","location":"Milano"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Active(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		rec := serve(t, func(m *announcement.MockRepository, _ *announcement.MockListingTx) {
			m.EXPECT().GetActive(gomock.Any(), owner, announcement.TypeBuy).
				Return(&announcement.Announcement{ID: uuid.New(), OwnerID: owner, Type: announcement.TypeBuy}, nil)
		}, http.MethodGet, "/announcements/active?user=9&type=buy", 7, "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("None", func(t *testing.T) {
		rec := serve(t, func(m *announcement.MockRepository, _ *announcement.MockListingTx) {
			m.EXPECT().GetActive(gomock.Any(), owner, announcement.TypeSell).Return(nil, nil)
		}, http.MethodGet, "/announcements/active", owner, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Archive(t *testing.T) {
	id := uuid.New()
	active := &announcement.Announcement{ID: id, OwnerID: owner, Type: announcement.TypeSell, Status: announcement.StatusActive}

	archives := func(m *announcement.MockRepository, ltx *announcement.MockListingTx) {
		m.EXPECT().GetAnnouncement(gomock.Any(), id).Return(active, nil).Times(2)
		m.EXPECT().BeginListing(gomock.Any(), owner, announcement.TypeSell).Return(ltx, nil)
		ltx.EXPECT().SetStatus(gomock.Any(), id, announcement.StatusArchived).Return(nil)
		ltx.EXPECT().ClearActivePointer(gomock.Any(), owner, announcement.TypeSell, id).Return(nil)
		ltx.EXPECT().Commit().Return(nil)
		ltx.EXPECT().Rollback().Return(nil)
	}

	tests := []struct {
		name       string
		caller     int64
		setupMock  func(m *announcement.MockRepository, ltx *announcement.MockListingTx)
		wantStatus int
	}{
		{name: "Owner", caller: owner, setupMock: archives, wantStatus: http.StatusNoContent},
		{name: "Admin", caller: admin, setupMock: archives, wantStatus: http.StatusNoContent},
		{
			name:   "Stranger",
			caller: 7,
			setupMock: func(m *announcement.MockRepository, _ *announcement.MockListingTx) {
				m.EXPECT().GetAnnouncement(gomock.Any(), id).Return(active, nil)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.setupMock, http.MethodPost, "/announcements/"+id.String()+"/archive", tt.caller, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
