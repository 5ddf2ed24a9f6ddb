package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/relato-crm/relato/internal/api"
	"github.com/relato-crm/relato/internal/config"
	"github.com/relato-crm/relato/internal/db"
	"github.com/relato-crm/relato/internal/events"
	"github.com/relato-crm/relato/internal/middleware"
	"github.com/relato-crm/relato/internal/observ"
	"github.com/relato-crm/relato/internal/repository/postgres"
	"github.com/relato-crm/relato/internal/resolver"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no parent deadline — take as long as the connections need.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	// Redis only backs the best-effort owner-name cache, so an unreachable
	// redis degrades to cacheless operation instead of failing startup.
	var nameCache *resolver.OwnerNameCache
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.Warn("invalid redis URL, owner-name cache disabled", zap.Error(err))
	} else {
		client := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, owner-name cache disabled", zap.Error(err))
		} else {
			nameCache = resolver.NewOwnerNameCache(client, 5*time.Minute)
		}
		cancel()
	}

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	companyRepo := postgres.NewCompanyStore(pool)
	contactRepo := postgres.NewContactStore(pool)
	leadRepo := postgres.NewLeadStore(pool)
	dealRepo := postgres.NewDealStore(pool)
	listRepo := postgres.NewListStore(pool)

	res := resolver.New(userRepo, companyRepo, contactRepo, leadRepo, nameCache, logger)
	hub := events.NewHub(logger)

	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	userHandler := api.NewUserHandler(userRepo, res, logger)
	companyHandler := api.NewCompanyHandler(companyRepo, res, hub, logger)
	contactHandler := api.NewContactHandler(contactRepo, res, hub, logger)
	leadHandler := api.NewLeadHandler(leadRepo, res, hub, logger)
	dealHandler := api.NewDealHandler(dealRepo, res, hub, logger)
	listHandler := api.NewListHandler(listRepo, res, hub, logger)
	eventsHandler := api.NewEventsHandler(hub, logger)

	srv := gin.New()
	srv.Use(gin.Recovery(), middleware.Metrics())

	logger.Info("starting relato",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	// Public: health for load balancers, metrics for the scraper, auth for
	// clients that don't have a token yet.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	srv.GET("/metrics", gin.WrapH(promhttp.Handler()))
	srv.POST("/v1/auth/signup", authHandler.Signup)
	srv.POST("/v1/auth/login", authHandler.Login)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	v1.GET("/users/me", userHandler.GetMe)
	v1.PUT("/users/me", userHandler.UpdateMe)

	v1.POST("/companies", companyHandler.Create)
	v1.GET("/companies", companyHandler.List)
	v1.GET("/companies/:id", companyHandler.GetByID)
	v1.PATCH("/companies/:id", companyHandler.Update)
	v1.DELETE("/companies/:id", companyHandler.Delete)

	v1.POST("/contacts", contactHandler.Create)
	v1.GET("/contacts", contactHandler.List)
	v1.GET("/contacts/:id", contactHandler.GetByID)
	v1.PATCH("/contacts/:id", contactHandler.Update)
	v1.DELETE("/contacts/:id", contactHandler.Delete)

	v1.POST("/leads", leadHandler.Create)
	v1.GET("/leads", leadHandler.List)
	v1.GET("/leads/:id", leadHandler.GetByID)
	v1.PATCH("/leads/:id", leadHandler.Update)
	v1.DELETE("/leads/:id", leadHandler.Delete)

	v1.POST("/deals", dealHandler.Create)
	v1.GET("/deals", dealHandler.List)
	v1.GET("/deals/:id", dealHandler.GetByID)
	v1.PATCH("/deals/:id", dealHandler.Update)
	v1.DELETE("/deals/:id", dealHandler.Delete)

	v1.POST("/lists", listHandler.Create)
	v1.GET("/lists", listHandler.List)
	v1.GET("/lists/:id", listHandler.GetByID)
	v1.PATCH("/lists/:id", listHandler.Update)
	v1.DELETE("/lists/:id", listHandler.Delete)
	v1.POST("/lists/:id/toggle", listHandler.Toggle)

	v1.GET("/events", eventsHandler.Stream)

	return srv.Run(":" + cfg.Port)
}
