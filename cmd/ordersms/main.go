package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/weblineafrica/order-sms/internal/api"
	"github.com/weblineafrica/order-sms/internal/config"
	"github.com/weblineafrica/order-sms/internal/events"
	"github.com/weblineafrica/order-sms/internal/gateway"
	"github.com/weblineafrica/order-sms/internal/model"
	"github.com/weblineafrica/order-sms/internal/notifier"
	"github.com/weblineafrica/order-sms/internal/orders"
	"github.com/weblineafrica/order-sms/internal/settings"
	"github.com/weblineafrica/order-sms/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	slog.Info("order-sms starting",
		"addr", cfg.Server.Address,
		"gateway", cfg.Gateway.URL,
		"async", cfg.Dispatch.Async,
		"redis", cfg.Redis.Enabled,
		"nats", cfg.NATS.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := orders.Open(ctx, cfg.Database.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	provider, closeSettings := buildSettings(cfg)
	defer closeSettings()

	client := gateway.NewClient(provider, gateway.Options{
		URL:          cfg.Gateway.URL,
		Timeout:      cfg.Gateway.Timeout,
		MaxRedirects: cfg.Gateway.MaxRedirects,
	})
	handler := notifier.NewHandler(orders.NewPostgresOrderLookup(db), provider, client)

	dispatch := handler.Handle
	var pool *worker.Pool
	if cfg.Dispatch.Async {
		pool, err = worker.New(cfg.Dispatch.MaxInFlight, handler.Handle)
		if err != nil {
			log.Fatal(err)
		}
		pool.Start()
		defer pool.Stop()

		dispatch = func(ctx context.Context, ev model.OrderStatusEvent) {
			if !pool.Submit(ev) {
				handler.Handle(ctx, ev)
			}
		}
	}

	if cfg.NATS.Enabled {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("order-sms"))
		if err != nil {
			log.Fatal(err)
		}
		defer nc.Close()

		sub := events.NewSubscriber(nc, cfg.NATS.Subject, dispatch)
		if err := sub.Start(); err != nil {
			log.Fatal(err)
		}
		defer func() { _ = sub.Stop() }()
	}

	var apiPool api.Pool
	if pool != nil {
		apiPool = pool
	}
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           loggingMiddleware(api.Router(api.NewHandler(dispatch, provider, apiPool), cfg.Admin.JWTSecret)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}

func buildSettings(cfg *config.Config) (settings.Provider, func()) {
	if !cfg.Redis.Enabled {
		return settings.NewStatic(cfg.SMS), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return settings.NewRedisStore(rdb, cfg.Redis.SettingsKey), func() { _ = rdb.Close() }
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
