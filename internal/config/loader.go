package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Config file is optional if environment variables are set.
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: Could not read config file %s: %v. Using defaults and environment variables.\n", configPath, err)
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvironmentOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvironmentOverrides applies environment variable overrides to
// config. Environment variables take precedence over file contents.
func applyEnvironmentOverrides(cfg *Config) {
	if hosts := os.Getenv("ZOOKEEPER_HOSTS"); hosts != "" {
		cfg.Zookeeper.Hosts = strings.Split(hosts, ",")
	}
	if basePath := os.Getenv("ZOOKEEPER_BASE_PATH"); basePath != "" {
		cfg.Zookeeper.BasePath = basePath
	}
	if instanceID := os.Getenv("INSTANCE_ID"); instanceID != "" {
		cfg.Zookeeper.InstanceID = instanceID
	}
	if port := os.Getenv("HEALTH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.HealthPort = p
		}
	}
	if port := os.Getenv("METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Metrics.Port = p
		}
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}
