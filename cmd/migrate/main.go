package main

import (
	"invest_platform/internal/config" // Custom import path (Config)
	"invest_platform/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	config.SetupLogging(cfg)

	gdb, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed")

	// The first operator signs up normally and is promoted here
	if cfg.AdminEmail != "" {
		if err := db.GrantAdmin(gdb, cfg.AdminEmail); err != nil {
			logrus.Fatalf("failed to grant admin role to %s: %v", cfg.AdminEmail, err)
		}
	}
}
