package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/announcement"
	announcementStore "github.com/MrJamesThe3rd/kwhmarket/internal/announcement/store"
	"github.com/MrJamesThe3rd/kwhmarket/internal/config"
	"github.com/MrJamesThe3rd/kwhmarket/internal/database"
	"github.com/MrJamesThe3rd/kwhmarket/internal/export"
	"github.com/MrJamesThe3rd/kwhmarket/internal/feedback"
	feedbackStore "github.com/MrJamesThe3rd/kwhmarket/internal/feedback/store"
	marketHttp "github.com/MrJamesThe3rd/kwhmarket/internal/http"
	announcementHandler "github.com/MrJamesThe3rd/kwhmarket/internal/http/announcement"
	donationHandler "github.com/MrJamesThe3rd/kwhmarket/internal/http/donation"
	exportHandler "github.com/MrJamesThe3rd/kwhmarket/internal/http/export"
	offerHandler "github.com/MrJamesThe3rd/kwhmarket/internal/http/offer"
	txHandler "github.com/MrJamesThe3rd/kwhmarket/internal/http/transaction"
	userHandler "github.com/MrJamesThe3rd/kwhmarket/internal/http/user"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/kwhmarket/internal/ledger/store"
	"github.com/MrJamesThe3rd/kwhmarket/internal/logging"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
	offerStore "github.com/MrJamesThe3rd/kwhmarket/internal/offer/store"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ratelimit"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
	txStore "github.com/MrJamesThe3rd/kwhmarket/internal/transaction/store"
	"github.com/MrJamesThe3rd/kwhmarket/internal/user"
	userStore "github.com/MrJamesThe3rd/kwhmarket/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if cfg.Auth.AdminUserID == 0 {
		log.Warn("ADMIN_USER_ID is not set, donations and admin endpoints are disabled")
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	notifier, closeNotifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	var limiter ratelimit.Limiter

	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		limiter = ratelimit.NewRedisLimiter(rdb, cfg.Redis.RequestsPerMin, time.Minute)
	}

	users := userStore.New(db)

	var (
		announcementService = announcement.NewService(announcementStore.New(db))
		userService         = user.NewService(users, users)
		transactionService  = transaction.NewService(txStore.New(db))
	)

	ledgerService := ledger.NewService(ledgerStore.New(db), notifier, log.Named("ledger"),
		ledger.WithNegativeBalance(cfg.Ledger.AllowNegativeBalance),
	)

	engine := offer.NewEngine(offerStore.New(db), notifier, log.Named("offer"),
		offer.WithListings(announcementService),
		offer.WithUsers(userService),
		offer.WithSettler(ledgerService),
		offer.WithAdmin(cfg.Auth.AdminUserID),
	)

	tracker := feedback.NewTracker(feedbackStore.New(db), engine, notifier, log.Named("feedback"))

	var (
		offerH        = offerHandler.NewHandler(engine, tracker, cfg.Auth.AdminUserID)
		announcementH = announcementHandler.NewHandler(announcementService, cfg.Auth.AdminUserID)
		userH         = userHandler.NewHandler(userService)
		donationH     = donationHandler.NewHandler(ledgerService, engine, cfg.Auth.AdminUserID)
		transactionH  = txHandler.NewHandler(transactionService, cfg.Auth.AdminUserID)
		exportH       = exportHandler.NewHandler(export.NewService(transactionService), cfg.Auth.AdminUserID)
	)

	router := marketHttp.New(marketHttp.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Limiter:        limiter,
		DB:             db,
		Log:            log,
	}, offerH, announcementH, userH, donationH, transactionH, exportH)

	if cfg.Offer.ExpiryInterval > 0 {
		go sweepExpired(ctx, engine, cfg.Offer.ExpiryInterval, log)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newNotifier publishes over NATS when a url is configured and only logs
// otherwise. Either way delivery runs behind a circuit breaker.
func newNotifier(cfg *config.Config, log *zap.Logger) (notify.Notifier, func(), error) {
	if cfg.NATS.URL == "" {
		log.Warn("NATS_URL is not set, notifications are only logged")
		return notify.NewBreakerNotifier(notify.NewLogNotifier(log.Named("notify")), log), func() {}, nil
	}

	nc, err := notify.Connect(cfg.NATS.URL, log)
	if err != nil {
		return nil, nil, err
	}

	n := notify.NewNATSNotifier(nc, cfg.NATS.SubjectPrefix, log.Named("notify"))

	return notify.NewBreakerNotifier(n, log), func() { nc.Drain() }, nil
}

func sweepExpired(ctx context.Context, engine *offer.Engine, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := engine.ExpireStale(ctx)
			if err != nil {
				log.Error("failed to expire stale offers", zap.Error(err))
				continue
			}

			if n > 0 {
				log.Info("expired stale offers", zap.Int("count", n))
			}
		}
	}
}
