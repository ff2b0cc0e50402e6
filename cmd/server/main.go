package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Server closed detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Shutdown budget

	"invest_platform/internal/api"        // Custom package for API handlers
	"invest_platform/internal/config"     // Custom package for configuration
	"invest_platform/internal/db"         // Database connection
	"invest_platform/internal/i18n"       // Localized messages
	"invest_platform/internal/market"     // Market favorites
	"invest_platform/internal/metrics"    // Prometheus collectors
	"invest_platform/internal/notify"     // Operator notifications
	"invest_platform/internal/repository" // Stores
	"invest_platform/internal/service"    // Domain services
	"invest_platform/internal/utils"      // Token denylist

	"github.com/gin-gonic/gin"                       // Gin web framework
	"github.com/prometheus/client_golang/prometheus" // Metrics registry
	"github.com/redis/go-redis/v9"                   // Redis client
	"github.com/sirupsen/logrus"                     // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	config.SetupLogging(cfg)   // Setup logger

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	dispatcher := notify.NewDispatcher(notify.NewFromConfig(cfg), cfg.NotifyTimeout, m)

	txs := repository.NewTransactionRepository(gdb)
	profiles := repository.NewProfileRepository(gdb)
	cache := service.NewRedisInvalidator(redisClient)

	deps := api.Deps{
		Auth:      service.NewAuth(repository.NewUserRepository(gdb), profiles, utils.NewDenylist(redisClient), cfg.JWTSecret, cfg.TokenTTL),
		Workflow:  service.NewWorkflow(txs, profiles, dispatcher, cfg.DepositNetworks, m).WithCache(cache),
		Review:    service.NewReview(txs, profiles, repository.NewRoleRepository(gdb), m).WithCache(cache),
		Dashboard: service.NewDashboard(txs, profiles, redisClient, cfg.PublicURL),
		Favorites: market.NewFavorites(redisClient),
		Localizer: i18n.New(cfg.DefaultLocale),
		Metrics:   m,
		Gatherer:  registry,
		Trusted:   []string{"127.0.0.1"},
	}
	// Serve the relay from this process unless a remote relay is configured
	if cfg.RelayURL == "" {
		deps.Relay = notify.TelegramFromConfig(cfg)
	}

	r, err := api.NewRouter(deps)
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	dispatcher.Wait() // Let in-flight notifications finish
	_ = redisClient.Close()
}
