package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/config"
	"github.com/mamadbah2/promoboard/internal/repository/memory"
	"github.com/mamadbah2/promoboard/internal/repository/mongodb"
	"github.com/mamadbah2/promoboard/internal/scheduler"
	"github.com/mamadbah2/promoboard/internal/seed"
	"github.com/mamadbah2/promoboard/internal/server/handlers"
	"github.com/mamadbah2/promoboard/internal/server/router"
	analyticssvc "github.com/mamadbah2/promoboard/internal/service/analytics"
	"github.com/mamadbah2/promoboard/internal/service/chessboard"
	exportsvc "github.com/mamadbah2/promoboard/internal/service/export"
	"github.com/mamadbah2/promoboard/internal/service/notify"
	"github.com/mamadbah2/promoboard/internal/service/pricing"
	"github.com/mamadbah2/promoboard/internal/service/registry"
	reportingsvc "github.com/mamadbah2/promoboard/internal/service/reporting"
	"github.com/mamadbah2/promoboard/internal/service/session"
	"github.com/mamadbah2/promoboard/pkg/clients/webhook"
	"github.com/mamadbah2/promoboard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	units := seed.Units(cfg.Seed.RandomSeed)
	promotions, err := seed.Promotions(units, cfg.Seed.DefaultProject)
	if err != nil {
		baseLogger.Fatal("failed to build seed promotions", zap.Error(err))
	}
	series, err := seed.LoadTimeSeries()
	if err != nil {
		baseLogger.Fatal("failed to load time series", zap.Error(err))
	}
	baseLogger.Info("seed data ready", zap.Int("units", len(units)), zap.Int("promotions", len(promotions)))

	unitStore := memory.NewUnitStore(units)
	promotionStore := memory.NewPromotionStore(promotions)
	metricsStore := memory.NewMetricsStore(seed.Metrics(promotions))

	var forwarder webhook.Client
	if cfg.Notifications.WebhookURL != "" {
		forwarder = webhook.NewClient(cfg.Notifications)
		baseLogger.Info("notification webhook enabled")
	}
	center := notify.NewCenter(cfg.Notifications.TTL, forwarder, baseLogger.Named("svc.notify"))
	defer center.Close()

	var archive exportsvc.Archive
	var archiveReader handlers.ArchiveReader
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive, archiveReader = mongoRepo, mongoRepo
		baseLogger.Info("export archive enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, export jobs are not archived")
	}

	registrySvc := registry.NewService(promotionStore, unitStore, center, cfg.Seed.DefaultProject, baseLogger.Named("svc.registry"))
	board := chessboard.NewBoard(units, chessboard.DefaultLayout(), baseLogger.Named("svc.chessboard"))
	pricingSvc := pricing.NewService(unitStore, registrySvc, baseLogger.Named("svc.pricing"))
	analyticsSvc := analyticssvc.NewService(registrySvc, metricsStore, series, cfg.Analytics.RevenueReference, cfg.Analytics.LoadingDelay, baseLogger.Named("svc.analytics"))
	exportSvc := exportsvc.NewService(cfg.Export.Delay, archive, center, baseLogger.Named("svc.export"))
	defer exportSvc.Close()
	reportingSvc := reportingsvc.NewService(analyticsSvc, registrySvc, baseLogger.Named("svc.reporting"))
	sessions := session.NewManager(cfg.Seed.DefaultProject)

	engine := router.New(router.Handlers{
		Promotions:    handlers.NewPromotionHandler(registrySvc, sessions, baseLogger.Named("handlers.promotions")),
		Chessboard:    handlers.NewChessboardHandler(board, registrySvc, pricingSvc, sessions, baseLogger.Named("handlers.chessboard")),
		Analytics:     handlers.NewAnalyticsHandler(analyticsSvc, sessions, baseLogger.Named("handlers.analytics")),
		Exports:       handlers.NewExportHandler(exportSvc, registrySvc, archiveReader, sessions, baseLogger.Named("handlers.exports")),
		Notifications: handlers.NewNotificationHandler(center, baseLogger.Named("handlers.notifications")),
	}, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, center, exportSvc, registrySvc, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
