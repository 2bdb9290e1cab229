package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/autosign/codegate/internal/platform/config"
	"github.com/autosign/codegate/internal/platform/logger"
	"github.com/autosign/codegate/internal/verification/adapters/mailapi"
	"github.com/autosign/codegate/internal/verification/app"
	"github.com/autosign/codegate/internal/verification/extraction"
	"github.com/autosign/codegate/internal/verification/store"
	httptransport "github.com/autosign/codegate/internal/verification/transport/http"
)

const serviceName = "codegate"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("Verification code gateway starting...", "port", cfg.HTTPPort)

	codeStore := store.New()
	processor := app.NewCodeProcessor(codeStore, appLogger)

	var source app.MessageSource
	if cfg.MailAPIKey != "" {
		source = mailapi.NewClient(cfg.MailAPIBaseURL, cfg.MailAPIKey, appLogger)
		appLogger.Info("Inbox polling enabled", "base_url", cfg.MailAPIBaseURL)
	} else {
		appLogger.Info("Mail API key not configured; running webhook-only")
	}
	coordinator := app.NewCoordinator(source, processor, codeStore, extraction.MailLimits, appLogger)

	validate := validator.New()
	webhookHandler := httptransport.NewWebhookHandler(processor, appLogger)
	codeHandler := httptransport.NewCodeHandler(codeStore, coordinator, validate, appLogger, httptransport.CodeHandlerConfig{
		MailAPIConfigured:  source != nil,
		DefaultWaitTimeout: cfg.WaitTimeout(),
		PollInterval:       cfg.PollInterval(),
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(httptransport.PrometheusMetricsMiddleware)
	// No global request timeout: the wait endpoint legitimately blocks for
	// the full configured budget.

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "codegate is healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook/sms", webhookHandler.HandleInboundSMS)
	codeHandler.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info(fmt.Sprintf("HTTP server listening on port %d", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutdown signal received, shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Verification code gateway stopped")
}
