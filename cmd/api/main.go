package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/studreg-api/api/swagger"
	"github.com/noah-isme/studreg-api/internal/handler"
	"github.com/noah-isme/studreg-api/internal/middleware"
	"github.com/noah-isme/studreg-api/internal/repository"
	"github.com/noah-isme/studreg-api/internal/service"
	"github.com/noah-isme/studreg-api/pkg/cache"
	"github.com/noah-isme/studreg-api/pkg/config"
	"github.com/noah-isme/studreg-api/pkg/database"
	"github.com/noah-isme/studreg-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studreg-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/studreg-api/pkg/middleware/requestid"
)

// @title Student Registration API
// @version 1.0.0
// @description CRUD backend for the student registration portal
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var listCache *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, list cache disabled", "error", err)
		} else {
			listCache = repository.NewCacheRepository(redisClient, logr)
			defer listCache.Close()
		}
	}

	metricsSvc := service.NewMetricsService()

	studentRepo := repository.NewStudentRepository(db)
	var studentSvc *service.StudentService
	if listCache != nil {
		studentSvc = service.NewStudentService(studentRepo, listCache, cfg.Cache.ListTTL, metricsSvc, logr)
	} else {
		studentSvc = service.NewStudentService(studentRepo, nil, 0, metricsSvc, logr)
	}

	studentHandler := handler.NewStudentHandler(studentSvc)
	exportHandler := handler.NewExportHandler(studentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		students := api.Group("/student")
		students.GET("", studentHandler.List)
		students.POST("", studentHandler.Create)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)
		students.GET("/export", exportHandler.Roster)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
