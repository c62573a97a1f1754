package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookadmin/internal/config"
	"bookadmin/internal/httpx"
	"bookadmin/internal/metrics"
	"bookadmin/internal/platform/bookstore"
	"bookadmin/internal/session"
	"bookadmin/internal/web"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnvFiles()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Development() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sessionStore, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	collector := metrics.New()
	api := bookstore.NewClient(bookstore.Config{
		BaseURL:    cfg.APIURL,
		AuthHeader: cfg.AuthHeader,
		Timeout:    cfg.APITimeout,
		RPS:        cfg.APIRPS,
		MaxRetries: cfg.APIMaxRetries,
	}, bookstore.WithObserver(collector.ObserveAPICall))

	sessions := session.NewManager(session.Options{
		Store:  sessionStore,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
		Logger: logger.Named("session"),
	})

	server, err := web.New(web.Options{
		API:          api,
		Sessions:     sessions,
		Logger:       logger,
		Metrics:      collector,
		LoginLimiter: httpx.NewRateLimitMiddleware(ctx, cfg.LoginRPS, cfg.LoginBurst, httpx.WithTrustedProxies(cfg.TrustedProxies...)),
		HSTS:         cfg.CookieSecure,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.Addr),
			zap.String("api", api.BaseURL()),
			zap.String("session_store", cfg.SessionStore))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
