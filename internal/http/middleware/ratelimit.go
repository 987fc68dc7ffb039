package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/metrics"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ratelimit"
)

// RateLimit throttles authenticated users. Limiter failures let the request
// through.
func RateLimit(l ratelimit.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := l.Allow(r.Context(), userID)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.Int64("user_id", userID), zap.Error(err))
				next.ServeHTTP(w, r)

				return
			}

			if !allowed {
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", "60")
				respond.Fail(w, http.StatusTooManyRequests, "too many requests")

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
