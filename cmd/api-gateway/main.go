package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/alumni-tracking-api/api/swagger"
	"github.com/noah-isme/alumni-tracking-api/internal/handler"
	"github.com/noah-isme/alumni-tracking-api/internal/repository"
	"github.com/noah-isme/alumni-tracking-api/internal/router"
	"github.com/noah-isme/alumni-tracking-api/internal/service"
	"github.com/noah-isme/alumni-tracking-api/pkg/cache"
	"github.com/noah-isme/alumni-tracking-api/pkg/config"
	"github.com/noah-isme/alumni-tracking-api/pkg/database"
	"github.com/noah-isme/alumni-tracking-api/pkg/export"
	"github.com/noah-isme/alumni-tracking-api/pkg/logger"
)

// @title Alumni Tracking API
// @version 1.0.0
// @description Role-scoped alumni records, outcome analytics and curriculum suggestions
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("database migration failed", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	alumniRepo := repository.NewAlumniRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)

	auditDispatcher := service.NewAuditDispatcher(auditRepo, cfg.Audit.Workers, logr)
	auditDispatcher.Start(ctx)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, auditDispatcher, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	alumniSvc := service.NewAlumniService(alumniRepo, cacheSvc, metrics, validate, logr, service.AlumniConfig{
		DefaultPageSize: cfg.Alumni.DefaultPageSize,
		MaxPageSize:     cfg.Alumni.MaxPageSize,
		ExportMaxRows:   cfg.Alumni.ExportMaxRows,
	})
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metrics, logr, cfg.Analytics.CacheTTL)
	exportSvc := service.NewExportService(alumniRepo, cfg.Alumni.ExportMaxRows, logr, export.NewCSVExporter(), export.NewPDFExporter())
	curriculumSvc := service.NewCurriculumService(curriculumRepo, validate, logr)

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["cache"] = cacheRepo
	}

	engine := router.Setup(cfg, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Alumni:     handler.NewAlumniHandler(alumniSvc, exportSvc),
		Analytics:  handler.NewAnalyticsHandler(analyticsSvc),
		Curriculum: handler.NewCurriculumHandler(curriculumSvc),
		Metrics:    handler.NewMetricsHandler(metrics, checks, logr),
	}, router.Dependencies{
		Tokens:  authSvc,
		Audit:   auditDispatcher,
		Metrics: metrics,
		Logger:  logr,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := auditDispatcher.Stop(shutdownCtx); err != nil {
		logr.Warn("audit queue not drained", zap.Error(err))
	}
}
