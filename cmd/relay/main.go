package main

import (
	"invest_platform/internal/api"     // Relay handler
	"invest_platform/internal/config"  // Configuration
	"invest_platform/internal/metrics" // Prometheus collectors
	"invest_platform/internal/notify"  // Telegram sender

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // /metrics handler
	"github.com/sirupsen/logrus"                              // Structured logging
)

// Standalone notification relay. It holds the Telegram secrets so the API server does not have to.
func main() {
	cfg := config.LoadConfig()
	config.SetupLogging(cfg)
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	sender := notify.TelegramFromConfig(cfg)
	if !sender.Configured() {
		logrus.Warn("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID missing, every send will fail")
	}

	r := gin.Default()
	r.Use(m.Middleware())
	api.MountRelay(r, sender, m)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	logrus.WithField("port", cfg.RelayPort).Info("Relay running")
	if err := r.Run(":" + cfg.RelayPort); err != nil {
		logrus.Fatalf("relay stopped: %v", err)
	}
}
