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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guilherme-santos/retellcalendar"
	"github.com/guilherme-santos/retellcalendar/calendar/google"
	"github.com/guilherme-santos/retellcalendar/internal"
	"github.com/guilherme-santos/retellcalendar/internal/config"
	"github.com/guilherme-santos/retellcalendar/internal/server"
	"github.com/guilherme-santos/retellcalendar/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to load configuration:", err)
		os.Exit(1)
	}

	logger, err := internal.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("unable to set up tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var booker server.Booker
	if cfg.Mode == config.ModeMock {
		logger.Warn("running in mock mode, bookings are not sent to Google")
	} else {
		if missing := cfg.MissingCredentials(); len(missing) > 0 {
			logger.Warn("google credentials missing, bookings will fail", zap.Strings("missing", missing))
		}
		booker = retellcalendar.NewBooker(
			google.NewTokenProvider(cfg, logger),
			google.NewClient(cfg, logger),
			cfg.TimeZone,
			logger,
		)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(cfg, booker, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("webhook server running", zap.String("addr", srv.Addr), zap.String("mode", cfg.Mode))
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
	logger.Info("server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
