package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/cache"
	"github.com/atelierhq/atelier/internal/config"
	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/handlers"
	"github.com/atelierhq/atelier/internal/logger"
	"github.com/atelierhq/atelier/internal/middleware"
	"github.com/atelierhq/atelier/internal/search"
	"github.com/atelierhq/atelier/internal/telemetry"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Atelier server starting", zap.String("environment", cfg.Environment))

	if err := database.Initialize(); err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	// Redis is optional; without it every response is served from Postgres
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		redisClient = nil
	}
	defer redisClient.Close()

	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  "atelier-api",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Enabled:      cfg.TracingEnabled,
		SamplingRate: cfg.SamplingRate,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	authService := auth.NewService([]byte(cfg.JWTSecret))
	searchService := search.NewService(database.DB)

	h := handlers.NewHandlers(searchService)
	h.SetAuthService(authService)
	if redisClient != nil {
		h.SetCache(redisClient)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.SessionMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if tp != nil {
		r.Use(otelgin.Middleware("atelier-api"))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Session-ID"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "atelier-api",
		}
		if err := database.Health(); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, status)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", authService.Middleware(), h.Me)
		}

		searchGroup := api.Group("/search")
		{
			searchGroup.GET("", h.Search)
			searchGroup.POST("/track-click", h.TrackClick)
		}

		blogs := api.Group("/blogs")
		{
			blogs.GET("", h.ListBlogs)
			blogs.GET("/:slug", h.GetBlog)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", h.ListProjects)
			projects.GET("/:slug", h.GetProject)
		}

		images := api.Group("/images")
		{
			images.GET("", h.ListImages)
			images.GET("/:id", h.GetImage)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", h.ListTags)
			tags.GET("/:slug", h.GetTag)
		}

		admin := api.Group("/admin")
		admin.Use(authService.Middleware())
		{
			admin.GET("/blogs", h.AdminListBlogs)
			admin.POST("/blogs", h.CreateBlog)
			admin.PUT("/blogs/:id", h.UpdateBlog)
			admin.DELETE("/blogs/:id", h.DeleteBlog)

			admin.GET("/projects", h.AdminListProjects)
			admin.POST("/projects", h.CreateProject)
			admin.PUT("/projects/:id", h.UpdateProject)
			admin.DELETE("/projects/:id", h.DeleteProject)

			admin.POST("/images", h.CreateImage)
			admin.PUT("/images/:id", h.UpdateImage)
			admin.DELETE("/images/:id", h.DeleteImage)

			admin.POST("/tags", h.CreateTag)
			admin.PUT("/tags/:id", h.UpdateTag)
			admin.DELETE("/tags/:id", h.DeleteTag)

			admin.GET("/analytics/search", h.GetSearchDashboard)
			admin.GET("/analytics/search/top-queries", h.GetTopQueries)
			admin.GET("/analytics/search/zero-results", h.GetZeroResultQueries)
			admin.GET("/analytics/search/history", h.GetSearchHistory)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
