// Package main provides the entry point for the long-running pricing service.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/health"
	"github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/pricing"
	"github.com/yourusername/edge-calibrator/internal/provider"
	"github.com/yourusername/edge-calibrator/internal/scheduler"
	"github.com/yourusername/edge-calibrator/internal/teams"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("EDGE_CALIBRATOR_CONFIG")

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		log.Fatalf("Failed to load secrets: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	appLog := logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"league":      cfg.League(),
		"version":     Version,
	}).Info("Edge calibrator pricer starting")

	source, err := datasource.NewFactory(appLog).NewScheduleSource(cfg.Provider)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create schedule source")
	}

	table, err := teams.DefaultTable()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load team table")
	}

	opts := provider.OptionsFromConfig(cfg, appLog)
	checks := map[string]health.Checker{}

	if b, ok := source.(interface{ BreakerOpen() bool }); ok {
		checks["upstream"] = health.CheckFunc(func(context.Context) error {
			if b.BreakerOpen() {
				return datasource.NewDataSourceError(source.Name(), datasource.ErrCodeServerError, "circuit breaker open", nil)
			}
			return nil
		})
	}

	if cfg.Redis.Enabled {
		client, err := provider.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to redis")
		}
		defer client.Close()

		opts = append(opts, provider.WithSharedStore(provider.NewRedisStore(client, cfg.Redis.KeyPrefix)))
		checks["redis"] = health.CheckFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		appLog.WithField("addr", cfg.Redis.Addr).Info("Shared stats store enabled")
	}

	prov := provider.New(source, teams.NewTableResolver(table), opts...)
	svc := pricing.NewService(prov, pricing.NormalApproxModel{}, pricing.ConfigFrom(cfg), appLog)

	handlers := map[string]http.Handler{}
	if cfg.Metrics.Enabled {
		handlers[cfg.Metrics.Path] = metrics.Handler()
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Health.Port),
		Logger:      appLog,
		Checks:      checks,
		Handlers:    handlers,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(appLog)
		job := scheduler.NewSlateWarmJob(svc, cfg.Pricing.SlateFile, cfg.League(), appLog)
		if _, err := sched.Schedule(cfg.Scheduler.WarmSchedule, "slate_warm", job); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule slate warm")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}

		// Warm once at startup so the first requests hit a populated cache
		go func() {
			if err := job(ctx); err != nil {
				appLog.WithError(err).Warn("Initial slate warm failed")
			}
		}()
	}

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"health_port": cfg.Health.Port,
		"scheduler":   cfg.Scheduler.Enabled,
		"redis":       cfg.Redis.Enabled,
	}).Info("Pricer is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if sched != nil {
		sched.Stop()
	}
	cancel()

	// Give the health server a moment to drain
	time.Sleep(100 * time.Millisecond)

	stats := prov.CacheStats()
	appLog.WithFields(logrus.Fields{
		"cache_hits":   stats.Hits,
		"cache_misses": stats.Misses,
		"cache_items":  stats.Items,
	}).Info("Pricer stopped")
}
