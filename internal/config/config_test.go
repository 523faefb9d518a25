package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingHosts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zookeeper.Hosts = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingInstanceID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Zookeeper.InstanceID = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateDefaultsLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	contents := `
zookeeper:
  hosts:
    - zk1:2181
    - zk2:2181
  session_timeout: 5s
  base_path: /platform
  instance_id: staging
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(configPath, []byte(contents), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"zk1:2181", "zk2:2181"}, cfg.Zookeeper.Hosts)
	assert.Equal(t, 5*time.Second, cfg.Zookeeper.SessionTimeout)
	assert.Equal(t, "/platform", cfg.Zookeeper.BasePath)
	assert.Equal(t, "staging", cfg.Zookeeper.InstanceID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset sections keep their defaults.
	assert.Equal(t, 8080, cfg.Server.HealthPort)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("ZOOKEEPER_HOSTS", "zk-a:2181,zk-b:2181")
	t.Setenv("INSTANCE_ID", "prod")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	applyEnvironmentOverrides(cfg)

	assert.Equal(t, []string{"zk-a:2181", "zk-b:2181"}, cfg.Zookeeper.Hosts)
	assert.Equal(t, "prod", cfg.Zookeeper.InstanceID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
