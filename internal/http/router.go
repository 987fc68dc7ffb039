package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/http/announcement"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/donation"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/export"
	authmw "github.com/MrJamesThe3rd/kwhmarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/offer"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/respond"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/transaction"
	"github.com/MrJamesThe3rd/kwhmarket/internal/http/user"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ratelimit"
)

// Pinger reports database health for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Limiter        ratelimit.Limiter // nil disables rate limiting
	DB             Pinger
	Log            *zap.Logger
}

func New(
	opts Options,
	offersV1 *offer.Handler,
	announcementsV1 *announcement.Handler,
	usersV1 *user.Handler,
	donationsV1 *donation.Handler,
	transactionsV1 *transaction.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthz(opts.DB))
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authmw.Auth(opts.JWTSecret))

		if opts.Limiter != nil {
			r.Use(authmw.RateLimit(opts.Limiter, opts.Log))
		}

		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/offers", offersV1.Routes)
		r.Route("/announcements", announcementsV1.Routes)
		r.Route("/users", usersV1.Routes)
		r.Route("/donations", donationsV1.Routes)
		r.Route("/transactions", transactionsV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
