package config

import (
	"errors"
	"time"
)

// Config represents the tenant directory service configuration.
type Config struct {
	Zookeeper ZookeeperConfig `mapstructure:"zookeeper"`
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ZookeeperConfig represents coordination store configuration. BasePath
// and InstanceID together determine where this instance's tenant tree
// lives in the shared ensemble.
type ZookeeperConfig struct {
	Hosts          []string      `mapstructure:"hosts"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
	BasePath       string        `mapstructure:"base_path"`
	InstanceID     string        `mapstructure:"instance_id"`
}

// ServerConfig represents process-level server configuration.
type ServerConfig struct {
	HealthPort      int           `mapstructure:"health_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MetricsConfig represents Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Zookeeper.Hosts) == 0 {
		return errors.New("zookeeper.hosts is required")
	}
	if c.Zookeeper.SessionTimeout <= 0 {
		return errors.New("zookeeper.session_timeout must be positive")
	}
	if c.Zookeeper.BasePath == "" {
		return errors.New("zookeeper.base_path is required")
	}
	if c.Zookeeper.InstanceID == "" {
		return errors.New("zookeeper.instance_id is required")
	}
	if c.Server.HealthPort <= 0 || c.Server.HealthPort > 65535 {
		return errors.New("server.health_port must be between 1 and 65535")
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return errors.New("metrics.port must be between 1 and 65535")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if !isValidLogFormat(c.Logging.Format) {
		return errors.New("logging.format must be one of: json, console")
	}
	return nil
}

func isValidLogFormat(format string) bool {
	switch format {
	case "json", "console":
		return true
	default:
		return false
	}
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Zookeeper: ZookeeperConfig{
			Hosts:          []string{"localhost:2181"},
			SessionTimeout: 10 * time.Second,
			BasePath:       "/edgehive",
			InstanceID:     "default",
		},
		Server: ServerConfig{
			HealthPort:      8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
