package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/edgehive/tenant-directory/internal/config"
	"github.com/edgehive/tenant-directory/internal/directory"
	"github.com/edgehive/tenant-directory/internal/health"
	"github.com/edgehive/tenant-directory/internal/metrics"
	"github.com/edgehive/tenant-directory/internal/store"
)

func main() {
	// Bootstrap logger; replaced once configuration is loaded.
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting tenant directory service")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	configured, err := buildLogger(cfg.Logging)
	if err != nil {
		logger.Fatal("Failed to build logger", zap.Error(err))
	}
	logger = configured
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.Strings("zookeeper_hosts", cfg.Zookeeper.Hosts),
		zap.String("base_path", cfg.Zookeeper.BasePath),
		zap.String("instance_id", cfg.Zookeeper.InstanceID))

	// Initialize metrics
	directoryMetrics := metrics.NewMetrics()
	logger.Info("Metrics initialized")

	// Connect to the coordination store
	contentStore, err := store.NewZookeeperStore(cfg.Zookeeper.Hosts, cfg.Zookeeper.SessionTimeout, logger)
	if err != nil {
		logger.Fatal("Failed to connect to coordination store", zap.Error(err))
	}
	defer contentStore.Close()
	logger.Info("Coordination store connected")

	// Build the directory and bootstrap the instance layout
	paths := directory.NewPathScheme(cfg.Zookeeper.BasePath, cfg.Zookeeper.InstanceID)
	tenantDirectory := directory.NewTenantDirectory(contentStore, paths, directoryMetrics, logger)

	if err := tenantDirectory.EnsureLayout(context.Background()); err != nil {
		logger.Fatal("Failed to bootstrap instance layout", zap.Error(err))
	}

	// Start metrics server
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}
		go func() {
			logger.Info("Starting metrics server", zap.String("address", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Start health check server
	healthChecker := health.NewHealthChecker(contentStore, logger)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health/live", healthChecker.LivenessHandler)
	healthMux.HandleFunc("/health/ready", healthChecker.ReadinessHandler)
	healthServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.HealthPort), Handler: healthMux}
	go func() {
		logger.Info("Starting health check server", zap.String("address", healthServer.Addr))
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health check server failed", zap.Error(err))
		}
	}()

	logger.Info("Tenant directory ready",
		zap.String("tenants_root", paths.TenantsRoot()))

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
	}
	if err := healthServer.Shutdown(ctx); err != nil {
		logger.Warn("Health server shutdown failed", zap.Error(err))
	}

	logger.Info("Tenant directory stopped")
}

// buildLogger constructs the process logger from logging configuration.
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
