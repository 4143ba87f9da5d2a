package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/metrics"
	"github.com/mamadbah2/smallerp/internal/repository"
	"github.com/mamadbah2/smallerp/internal/scheduler"
	"github.com/mamadbah2/smallerp/internal/server/handlers"
	"github.com/mamadbah2/smallerp/internal/server/router"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
	"github.com/mamadbah2/smallerp/internal/service/commands"
	"github.com/mamadbah2/smallerp/internal/service/notify"
	whatsappsvc "github.com/mamadbah2/smallerp/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/smallerp/pkg/clients/whatsapp"
	"github.com/mamadbah2/smallerp/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	backend, err := repository.Open(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to open entity store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close entity store", zap.Error(err))
		}
	}()

	appMetrics := metrics.New(nil)

	analysisSvc, err := analysis.NewService(backend.Store, cfg.Analysis, appMetrics, baseLogger.Named("svc.analysis"))
	if err != nil {
		baseLogger.Fatal("failed to init analysis service", zap.Error(err))
	}

	analysisHandler := handlers.NewAnalysisHandler(analysisSvc, cfg.Reporting.Location(), cfg.Analysis.Currency, baseLogger.Named("handlers.analysis"))

	var webhookHandler *handlers.WebhookHandler
	if cfg.WhatsApp.WebhookEnabled() {
		dispatcher := commands.NewService(analysisSvc, cfg.Analysis.Currency, cfg.Reporting.Location(), baseLogger.Named("svc.commands"))
		messaging := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsappclient.NewClient(cfg.WhatsApp), dispatcher, baseLogger.Named("svc.whatsapp"))
		webhookHandler = handlers.NewWebhookHandler(messaging, cfg.WhatsApp.AppSecret, baseLogger.Named("handlers.webhook"))
		baseLogger.Info("whatsapp report queries enabled", zap.Int("allowed_senders", len(cfg.WhatsApp.AllowedSenders)))
	}

	engine := router.New(analysisHandler, webhookHandler, appMetrics, baseLogger.Named("router"))

	if cfg.Reporting.Enabled {
		var notifier scheduler.ReportNotifier
		if cfg.WhatsApp.Enabled() {
			notifier = notify.NewNotifier(
				whatsappclient.NewClient(cfg.WhatsApp),
				cfg.WhatsApp.ReportRecipient,
				cfg.Analysis.Currency,
				baseLogger.Named("svc.notify"),
			)
			baseLogger.Info("whatsapp report delivery enabled")
		} else {
			baseLogger.Warn("WHATSAPP_REPORT_RECIPIENT missing, monthly reports will only be archived")
		}

		sched := scheduler.NewScheduler(cfg.Reporting, analysisSvc, backend.Archive, notifier, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", backend.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
