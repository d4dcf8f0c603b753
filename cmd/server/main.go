package main

import (
	"context"   // Shutdown deadline
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"cafe_ordering/internal/api"        // Custom package for API handlers
	"cafe_ordering/internal/config"     // Custom package for configuration
	"cafe_ordering/internal/db"         // Database connection
	"cafe_ordering/internal/events"     // Order event publisher
	"cafe_ordering/internal/metrics"    // Prometheus collectors
	"cafe_ordering/internal/middleware" // Rate limiter
	"cafe_ordering/internal/service"    // Business services

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metrics registry
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Metrics endpoint
	"github.com/sirupsen/logrus"                                // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.DBDriver == "sqlite" {
		// A local file database has no migrate step in front of it
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate: %v", err)
		}
	}

	// Setup Redis client
	redisClient, err := db.OpenRedis(context.Background(), cfg)
	if err != nil {
		// The cache is optional, every read falls back to the database
		logrus.WithField("error", err.Error()).Warn("Redis unavailable, caching disabled")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logrus.Fatalf("failed to connect to Kafka: %v", err)
		}
		publisher = kafka
	} else {
		logrus.Info("KAFKA_BROKERS not set, order events disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	auth := service.NewAuth(gdb, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
	router, err := api.NewRouter(api.Deps{
		Auth:           auth,
		Catalog:        service.NewCatalog(gdb, redisClient),
		Orders:         service.NewOrders(gdb, redisClient, publisher, m),
		Admin:          service.NewAdmin(gdb, redisClient),
		DB:             gdb,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AuthLimiter:    middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: []string{"127.0.0.1"},
		IsProd:         cfg.IsProd,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithField("error", err.Error()).Error("Forced shutdown")
	}
	if err := publisher.Close(); err != nil {
		logrus.WithField("error", err.Error()).Warn("Kafka producer close failed")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("Server stopped")
}
