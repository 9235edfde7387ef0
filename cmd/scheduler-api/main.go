package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/gistjackdaniel/filmWithAi-sub001/api/swagger"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/handler"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/middleware"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/repository"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/resolver"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/service"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/cache"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/config"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/database"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/logger"
	corsmiddleware "github.com/gistjackdaniel/filmWithAi-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/gistjackdaniel/filmWithAi-sub001/pkg/middleware/requestid"
)

// @title filmWithAi Scheduler API
// @version 0.1.0
// @description Shooting-schedule optimization service for filmWithAi projects
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, schedule caching disabled", zap.Error(err))
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.CacheTTL, logr, true)
		defer cacheRepo.Close() //nolint:errcheck
	}

	var snapshots *repository.SnapshotRepository
	if cfg.Snapshots.Enabled {
		db, dbErr := database.NewPostgres(cfg.Database)
		if dbErr != nil {
			log.Fatalf("failed to connect database: %v", dbErr)
		}
		defer db.Close() //nolint:errcheck
		snapshots = repository.NewSnapshotRepository(db)
	}

	locations := resolver.NewRegistryClient(cfg.Resolver, logr)

	scheduleSvc, err := service.NewScheduleService(
		locations,
		snapshotRepo(snapshots),
		cacheSvc,
		metricsSvc,
		validator.New(),
		logr,
		service.ScheduleServiceConfig{
			Scheduler:           cfg.Scheduler,
			ResolverConcurrency: cfg.Resolver.Concurrency,
		},
	)
	if err != nil {
		log.Fatalf("failed to init schedule service: %v", err)
	}

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, cacheSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Auth(cfg.JWT.Secret))
	{
		api.POST("/schedules", scheduleHandler.Generate)
		api.POST("/schedules/save", scheduleHandler.Save)
		api.GET("/schedules/proposals/:id/export", scheduleHandler.ExportSchedule)
		api.GET("/schedules/proposals/:id/breakdown/export", scheduleHandler.ExportBreakdown)
		api.GET("/schedules/snapshots", scheduleHandler.ListSnapshots)
		api.GET("/schedules/snapshots/:id", scheduleHandler.GetSnapshot)
		api.DELETE("/schedules/snapshots/:id", scheduleHandler.DeleteSnapshot)
		api.DELETE("/schedules/cache", scheduleHandler.InvalidateCache)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "snapshots", cfg.Snapshots.Enabled)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// snapshotRepo keeps the service's optional dependency nil when persistence
// is disabled, avoiding a typed-nil interface.
func snapshotRepo(repo *repository.SnapshotRepository) service.SnapshotStore {
	if repo == nil {
		return nil
	}
	return repo
}
