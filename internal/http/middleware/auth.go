package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
)

type contextKey string

const userIDKey contextKey = "userID"

// Auth validates the HS256 bearer token minted by the bot gateway. The
// subject claim carries the chat user id.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Fail(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				respond.Fail(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			var claims jwt.RegisteredClaims

			token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				respond.Fail(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 {
				respond.Fail(w, http.StatusUnauthorized, "invalid token subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RequireAdmin rejects callers other than adminID. It must run after Auth.
func RequireAdmin(adminID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok || adminID == 0 || userID != adminID {
				respond.Fail(w, http.StatusForbidden, "admin only")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UserID is the authenticated caller of r, or zero outside Auth.
func UserID(r *http.Request) int64 {
	id, _ := UserIDFromContext(r.Context())
	return id
}
