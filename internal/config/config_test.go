package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 35*time.Second, cfg.HTTP.ServerWriteTimeout())
	assert.Greater(t, cfg.HTTP.ServerWriteTimeout(), cfg.HTTP.RequestTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "clock", cfg.Order.IDGenerator)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "production", cfg.Log.Mode)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
http:
  port: "9090"
  request_timeout: 5s
session:
  ttl: 30m
order:
  id_generator: uuid
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
log:
  mode: development
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "uuid", cfg.Order.IDGenerator)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "pickup", cfg.MongoDB.Database)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("PICKUP_HTTP_PORT", "7070")
	t.Setenv("PICKUP_REDIS_ADDR", "redis:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.HTTP.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{HTTP: HTTPConfig{Port: "8080"}, Kafka: KafkaConfig{Enabled: true}}
	assert.Error(t, cfg.Validate())

	cfg.Kafka.Brokers = []string{"localhost:9092"}
	assert.NoError(t, cfg.Validate())

	cfg.HTTP.Port = ""
	assert.Error(t, cfg.Validate())
}

func TestServerWriteTimeout_OutlastsRequestTimeout(t *testing.T) {
	cfg := HTTPConfig{RequestTimeout: 30 * time.Second, WriteTimeout: 10 * time.Second}
	assert.Equal(t, 35*time.Second, cfg.ServerWriteTimeout())

	cfg.WriteTimeout = time.Minute
	assert.Equal(t, time.Minute, cfg.ServerWriteTimeout())

	t.Setenv("PICKUP_HTTP_REQUEST_TIMEOUT", "90s")
	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 95*time.Second, loaded.HTTP.ServerWriteTimeout())
}
