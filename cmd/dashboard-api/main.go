package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-mental-health-api/api/swagger"
	"github.com/noah-isme/student-mental-health-api/internal/handler"
	internalmiddleware "github.com/noah-isme/student-mental-health-api/internal/middleware"
	"github.com/noah-isme/student-mental-health-api/internal/repository"
	"github.com/noah-isme/student-mental-health-api/internal/service"
	"github.com/noah-isme/student-mental-health-api/pkg/cache"
	"github.com/noah-isme/student-mental-health-api/pkg/config"
	"github.com/noah-isme/student-mental-health-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-mental-health-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-mental-health-api/pkg/middleware/requestid"
)

// @title Student Mental Health Dashboard API
// @version 1.0.0
// @description Coordinated filter, view and tooltip state for the student mental health charts
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	records := repository.NewStudentRecordRepository(cfg.Dataset.Path, logr).WithSkipRecorder(metrics)

	var redisClient *redis.Client
	if cfg.ChartCache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("chart cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	namespace, err := records.Fingerprint()
	if err != nil {
		logr.Warn("dataset not readable at startup", zap.String("path", records.Path()), zap.Error(err))
	}
	chartCache := service.NewCacheService(service.CacheServiceParams{
		Repo:      cacheRepo,
		Metrics:   metrics,
		TTL:       cfg.ChartCache.TTL,
		Logger:    logr,
		Enabled:   redisClient != nil,
		Namespace: namespace,
	})

	if chartCache.Enabled() && cfg.ChartCache.WarmupWorkers > 0 {
		warmup, err := service.NewWarmupService(service.WarmupParams{
			Loader:   records,
			Cache:    chartCache,
			CacheTTL: cfg.ChartCache.TTL,
			Workers:  cfg.ChartCache.WarmupWorkers,
			Logger:   logr,

			KeepEmptySlices: cfg.Charts.PieKeepEmptySlices,
		})
		if err != nil {
			logr.Fatal("failed to build cache warmup", zap.Error(err))
		}
		go func() {
			// Models cached by a previous build may have another shape.
			if err := chartCache.InvalidateCharts(ctx); err != nil {
				logr.Warn("chart cache invalidation failed", zap.Error(err))
			}
			if _, err := warmup.Run(ctx); err != nil {
				logr.Warn("chart cache warmup interrupted", zap.Error(err))
			}
		}()
	}

	dashboard := service.NewDashboard(service.DashboardParams{
		Metrics: metrics,
		Logger:  logr,
		Config:  service.DashboardConfig{SettleWindow: cfg.Dashboard.SettleWindow},
	})
	defer dashboard.Close()

	charts, err := service.NewChartService(service.ChartServiceParams{
		Dashboard: dashboard,
		Loader:    records,
		Cache:     chartCache,
		CacheTTL:  cfg.ChartCache.TTL,
		Metrics:   metrics,
		Logger:    logr,

		KeepEmptySlices: cfg.Charts.PieKeepEmptySlices,
	})
	if err != nil {
		logr.Fatal("failed to build charts", zap.Error(err))
	}
	defer charts.Close()

	exports := service.NewExportService(charts, service.ExportConfig{Enabled: cfg.Exports.Enabled}, logr, nil, nil)

	validate := service.NewRequestValidator()
	dashboardHandler := handler.NewDashboardHandler(dashboard, validate)
	chartHandler := handler.NewChartHandler(charts, exports, validate)
	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
		"dataset": func() error {
			_, err := os.Stat(records.Path())
			return err
		},
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	eventsPath := cfg.APIPrefix + "/dashboard/events"
	r.Use(internalmiddleware.Metrics(metrics, eventsPath))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", metricsHandler.Summary)

	dash := api.Group("/dashboard")
	dash.GET("", dashboardHandler.Get)
	dash.GET("/events", dashboardHandler.Events)
	dash.POST("/selection", dashboardHandler.Toggle)
	dash.DELETE("/selection/:dimension", dashboardHandler.Clear)
	dash.POST("/node-select", dashboardHandler.SelectNode)
	dash.POST("/reset", dashboardHandler.Reset)
	dash.POST("/tags/:dimension/hover", dashboardHandler.HoverTag)
	dash.DELETE("/hover", dashboardHandler.ClearHover)

	chartsGroup := api.Group("/charts/:kind")
	chartsGroup.GET("", chartHandler.Get)
	chartsGroup.POST("/pointer-enter", chartHandler.PointerEnter)
	chartsGroup.POST("/pointer-leave", chartHandler.PointerLeave)
	chartsGroup.POST("/click", chartHandler.Click)
	chartsGroup.GET("/export", chartHandler.Export)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
		// Event streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "dataset", records.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Dashboard.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
