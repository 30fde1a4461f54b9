package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/josh-kwaku/dotpay-gateway/internal/config"
	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
	"github.com/josh-kwaku/dotpay-gateway/internal/events"
	"github.com/josh-kwaku/dotpay-gateway/internal/handler"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
	"github.com/josh-kwaku/dotpay-gateway/internal/metrics"
	"github.com/josh-kwaku/dotpay-gateway/internal/middleware"
	"github.com/josh-kwaku/dotpay-gateway/internal/origin"
	"github.com/josh-kwaku/dotpay-gateway/internal/repository"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/checkout"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/confirmation"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/status"
	"github.com/josh-kwaku/dotpay-gateway/internal/session"
)

const (
	version         = "1.0.0"
	channelCacheTTL = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("dotpay-gateway", cfg.LogLevel, cfg.AppEnv)

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
		ConnectAttempts:  30,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	rdb, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	publisher, closeNATS, err := events.Connect(cfg.NATSURL, cfg.NATSPrefix)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer closeNATS()

	allowList := cfg.Dotpay.IPAllowList
	if len(allowList) == 0 {
		allowList = origin.DefaultAllowList
	}
	guard, err := origin.NewGuard(allowList, cfg.Dotpay.OfficeIP, cfg.Dotpay.ProxyBypass)
	if err != nil {
		return fmt.Errorf("origin guard: %w", err)
	}

	client := dotpay.NewClient(dotpay.Options{
		TestMode:   cfg.Dotpay.TestMode,
		BaseURL:    cfg.Dotpay.BaseURL,
		APIBaseURL: cfg.Dotpay.APIBaseURL,
		Timeout:    cfg.Dotpay.APITimeout,
	})

	orders := repository.NewOrderRepository(db)
	confirmationEvents := repository.NewConfirmationEventRepository(db)
	sessions := session.NewStore(rdb, cfg.SessionTTL)
	catalog := session.NewChannelCatalog(rdb, channelCacheTTL)
	confirmationMetrics := metrics.NewConfirmation(prometheus.DefaultRegisterer)

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	confirmations := confirmation.NewService(confirmation.Config{
		SellerID:    cfg.Dotpay.SellerID,
		PIN:         cfg.Dotpay.PIN,
		Lang:        cfg.Dotpay.Lang,
		SettleDelay: cfg.SettleDelay,
		TestMode:    cfg.Dotpay.TestMode,
		APIUsername: cfg.Dotpay.APIUsername,
		APIPassword: cfg.Dotpay.APIPassword,
		ReturnURL:   baseURL + "/dotpay/status",
		Version:     version,
	}, confirmation.Deps{
		Guard:    guard,
		Orders:   orders,
		Events:   confirmationEvents,
		Channels: catalog,
		Notifier: publisher,
		Accounts: client,
		Metrics:  confirmationMetrics,
	})
	statuses := status.NewService(orders, sessions)
	checkouts := checkout.NewService(checkout.Config{
		SellerID:      cfg.Dotpay.SellerID,
		PIN:           cfg.Dotpay.PIN,
		APIUsername:   cfg.Dotpay.APIUsername,
		APIPassword:   cfg.Dotpay.APIPassword,
		Lang:          cfg.Dotpay.Lang,
		ShopName:      cfg.Dotpay.ShopName,
		ShopDomain:    cfg.Dotpay.ShopDomain,
		APIVersion:    cfg.Dotpay.APIVersion,
		PublicBaseURL: baseURL,
	}, orders, sessions, client, catalog)

	health := handler.NewHealthHandler(version, map[string]handler.Check{
		"database": handler.DBCheck(db),
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	confirmHandler := handler.NewConfirmHandler(confirmations)
	statusHandler := handler.NewStatusHandler(statuses)
	checkoutHandler := handler.NewCheckoutHandler(checkouts)

	withSession := middleware.Session(middleware.SessionOptions{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: strings.HasPrefix(baseURL, "https://"),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /ready", health.Readiness)
	mux.Handle("GET /metrics", metrics.Handler(prometheus.DefaultGatherer, func(v ...any) {
		slog.Error("metrics scrape failed", "error", fmt.Sprint(v...))
	}))
	// Any method reaches the handler so a non-POST gets its diagnostic.
	mux.HandleFunc("/dotpay/confirm", confirmHandler.Confirm)
	mux.Handle("GET /dotpay/status", withSession(http.HandlerFunc(statusHandler.Status)))
	mux.Handle("POST /dotpay/payments", withSession(http.HandlerFunc(checkoutHandler.Start)))
	mux.Handle("GET /dotpay/form", withSession(http.HandlerFunc(checkoutHandler.Form)))

	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.Logging(h)
	h = middleware.Tracing(h)
	h = otelhttp.NewHandler(h, "dotpay-gateway")

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", addr, "test_mode", cfg.Dotpay.TestMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
