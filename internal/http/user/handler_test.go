package user_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	userhttp "github.com/MrJamesThe3rd/kwhmarket/internal/http/user"
	"github.com/MrJamesThe3rd/kwhmarket/internal/user"
)

func serve(t *testing.T, setupMock func(r *user.MockRepository, w *user.MockWhitelist), method, path string, caller int64, body string) *httptest.ResponseRecorder {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := user.NewMockRepository(ctrl)
	whitelist := user.NewMockWhitelist(ctrl)
	setupMock(repo, whitelist)

	r := chi.NewRouter()
	r.Route("/users", userhttp.NewHandler(user.NewService(repo, whitelist)).Routes)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), caller))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Get(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(r *user.MockRepository, w *user.MockWhitelist)
		wantStatus  int
		wantPct     any
		wantTrusted bool
	}{
		{
			name: "TrustedByReputation",
			setupMock: func(r *user.MockRepository, w *user.MockWhitelist) {
				r.EXPECT().GetUser(gomock.Any(), int64(9)).Return(&user.User{
					UserID:     9,
					Username:   "mario",
					Reputation: user.Reputation{Positive: 19, Total: 20},
				}, nil)
				w.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(false, nil)
			},
			wantStatus:  http.StatusOK,
			wantPct:     float64(95),
			wantTrusted: true,
		},
		{
			name: "NoRatings",
			setupMock: func(r *user.MockRepository, w *user.MockWhitelist) {
				r.EXPECT().GetUser(gomock.Any(), int64(9)).Return(&user.User{UserID: 9}, nil)
				w.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(false, nil)
			},
			wantStatus: http.StatusOK,
			wantPct:    nil,
		},
		{
			name: "NotFound",
			setupMock: func(r *user.MockRepository, w *user.MockWhitelist) {
				r.EXPECT().GetUser(gomock.Any(), int64(9)).Return(nil, user.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "WhitelistDown",
			setupMock: func(r *user.MockRepository, w *user.MockWhitelist) {
				r.EXPECT().GetUser(gomock.Any(), int64(9)).Return(&user.User{UserID: 9}, nil)
				w.EXPECT().IsWhitelisted(gomock.Any(), int64(9)).Return(false, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.setupMock, http.MethodGet, "/users/9", 7, "")

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantPct, body["percentage"])
			assert.Equal(t, tt.wantTrusted, body["trusted"])
		})
	}

	t.Run("InvalidID", func(t *testing.T) {
		rec := serve(t, func(*user.MockRepository, *user.MockWhitelist) {}, http.MethodGet, "/users/abc", 7, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Ensure(t *testing.T) {
	rec := serve(t, func(r *user.MockRepository, w *user.MockWhitelist) {
		r.EXPECT().UpsertUser(gomock.Any(), user.Profile{UserID: 7, Username: "luigi", FirstName: "Luigi"}).
			Return(&user.User{UserID: 7, Username: "luigi", FirstName: "Luigi"}, nil)
		w.EXPECT().IsWhitelisted(gomock.Any(), int64(7)).Return(true, nil)
	}, http.MethodPut, "/users/me", 7, `{"username":"@luigi","first_name":" Luigi "}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "@luigi", body["display_name"])
	assert.Equal(t, true, body["whitelisted"])
	assert.Equal(t, float64(7), body["user_id"])
}
