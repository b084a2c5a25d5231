package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/country-calendar/internal/api"
	"github.com/neexbeast/country-calendar/internal/calendar"
	"github.com/neexbeast/country-calendar/internal/config"
	"github.com/neexbeast/country-calendar/internal/country"
	"github.com/neexbeast/country-calendar/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// calendarStore is a calendar.Store that can also be health-checked.
type calendarStore interface {
	calendar.Store
	Ping(ctx context.Context) error
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	var store calendarStore
	switch cfg.CalendarStore {
	case config.StoreRedis:
		client, err := calendar.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		redisStore := calendar.NewRedisStore(client)
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	default:
		store = calendar.NewMemoryStore()
	}
	log.Info("calendar store ready", "backend", cfg.CalendarStore)

	// Wire dependencies.
	nager := upstream.NewNagerClient(cfg.NagerBaseURL, cfg.UpstreamTimeout)
	countriesNow := upstream.NewCountriesNowClient(cfg.CountriesNowBaseURL, cfg.UpstreamTimeout)

	handlers := api.NewHandlers(
		country.NewService(nager, countriesNow),
		calendar.NewService(nager, store),
		log,
	)
	router := api.NewRouter(handlers, cfg.CORSAllowedOrigins, store, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.UpstreamTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}
