package main

import (
	"context" // Cache flush

	"cafe_ordering/internal/config"  // Custom import path (Config)
	"cafe_ordering/internal/db"      // Custom import path (Database)
	"cafe_ordering/internal/service" // Catalog cache

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration and seeding
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	err = db.Seed(gdb, db.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		BcryptCost:    cfg.BcryptCost,
	})
	if err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}

	// Drop catalog reads cached before the reseed
	ctx := context.Background()
	rdb, err := db.OpenRedis(ctx, cfg)
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Redis unavailable, catalog cache not flushed")
		return
	}
	defer rdb.Close()
	if err := service.NewCatalog(gdb, rdb).Invalidate(ctx); err != nil {
		logrus.WithField("error", err.Error()).Warn("Catalog cache flush failed")
		return
	}
	logrus.Info("Catalog cache flushed")
}
