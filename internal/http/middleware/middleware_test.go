package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)

	return token
}

func TestAuth(t *testing.T) {
	valid := sign(t, secret, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   int64
	}{
		{name: "Valid", header: "Bearer " + valid, wantStatus: http.StatusOK, wantUser: 42},
		{name: "LowercaseScheme", header: "bearer " + valid, wantStatus: http.StatusOK, wantUser: 42},
		{name: "MissingHeader", header: "", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "WrongSecret", header: "Bearer " + sign(t, "other", jwt.RegisteredClaims{Subject: "42"}), wantStatus: http.StatusUnauthorized},
		{
			name: "Expired",
			header: "Bearer " + sign(t, secret, jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{name: "NonNumericSubject", header: "Bearer " + sign(t, secret, jwt.RegisteredClaims{Subject: "alice"}), wantStatus: http.StatusUnauthorized},
		{name: "ZeroSubject", header: "Bearer " + sign(t, secret, jwt.RegisteredClaims{Subject: "0"}), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int64

			h := middleware.Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = middleware.UserID(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, got)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

				var body struct {
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		adminID    int64
		caller     int64
		wantStatus int
	}{
		{name: "Admin", adminID: 1, caller: 1, wantStatus: http.StatusOK},
		{name: "OtherUser", adminID: 1, caller: 2, wantStatus: http.StatusForbidden},
		{name: "Anonymous", adminID: 1, caller: 0, wantStatus: http.StatusForbidden},
		{name: "NoAdminConfigured", adminID: 0, caller: 0, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.RequireAdmin(tt.adminID)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.caller != 0 {
				req = req.WithContext(middleware.WithUserID(req.Context(), tt.caller))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

type stubLimiter struct {
	allowed bool
	err     error
	calls   []int64
}

func (s *stubLimiter) Allow(_ context.Context, userID int64) (bool, error) {
	s.calls = append(s.calls, userID)
	return s.allowed, s.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *stubLimiter
		caller     int64
		wantStatus int
		wantCalls  int
	}{
		{name: "Allowed", limiter: &stubLimiter{allowed: true}, caller: 5, wantStatus: http.StatusOK, wantCalls: 1},
		{name: "Denied", limiter: &stubLimiter{}, caller: 5, wantStatus: http.StatusTooManyRequests, wantCalls: 1},
		{name: "LimiterDown", limiter: &stubLimiter{err: errors.New("connection refused")}, caller: 5, wantStatus: http.StatusOK, wantCalls: 1},
		{name: "Anonymous", limiter: &stubLimiter{}, caller: 0, wantStatus: http.StatusOK, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.RateLimit(tt.limiter, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.caller != 0 {
				req = req.WithContext(middleware.WithUserID(req.Context(), tt.caller))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Len(t, tt.limiter.calls, tt.wantCalls)
		})
	}
}
