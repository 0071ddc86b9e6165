package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/db"
	"github.com/NomadCrew/feedback-service/handlers"
	"github.com/NomadCrew/feedback-service/internal/store/sqlite"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/router"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// @title        Feedback API
// @version      1.0
// @description  Collects and lists user feedback submissions.
// @BasePath     /api
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dbPath := db.ResolvePath(cfg.Database.Path)
	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(dbPath); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	manager := db.NewManager(db.Config{
		Path:        dbPath,
		BusyTimeout: time.Duration(cfg.Database.BusyTimeoutMS) * time.Millisecond,
	})
	if _, err := manager.Open(context.Background()); err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := manager.Close(); err != nil {
			log.Errorw("Failed to close database", "error", err)
		}
	}()

	feedbackStore := sqlite.NewFeedbackStore(manager, time.Now)
	feedbackService := services.NewFeedbackService(feedbackStore)
	healthService := services.NewHealthService(manager, cfg.Server.ServiceName, cfg.Server.Version)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := router.Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackService),
		HealthHandler:   handlers.NewHealthHandler(healthService),
		Registry:        registry,
		Logger:          log,
	}
	if cfg.RateLimit.SubmissionsPerMinute > 0 {
		deps.RateLimiter = services.NewRateLimitService(cfg.RateLimit.SubmissionsPerMinute, cfg.RateLimit.Burst)
	}

	srv := router.NewServer(":"+cfg.Server.Port, router.SetupRouter(deps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("Starting server", "port", cfg.Server.Port, "db", manager.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("Server stopped with error", "error", err)
	}
}
