package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", c.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, c.Backend.Timeout)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 10, c.Pagination.DefaultPageSize)
	assert.Equal(t, "console.events", c.Kafka.Topic)
	assert.Empty(t, c.Kafka.Brokers)
	assert.Empty(t, c.Mongo.URI)
}

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yml := `
logging:
  level: debug
backend:
  base_url: http://backend:9000/
  timeout: 3s
server:
  addr: ":9090"
  allowed_origins: ["http://a.example"]
dashboard:
  seed: 99
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte(yml), 0o644))
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092")
	t.Setenv("ALLOWED_ORIGINS", "http://x.example, http://y.example")
	t.Setenv("BACKEND_BASE_URL", "")

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "http://backend:9000", c.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, c.Backend.Timeout)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, []string{"http://x.example", "http://y.example"}, c.Server.AllowedOrigins)
	assert.Equal(t, "kafka:9092", c.Kafka.Brokers)
	assert.Equal(t, int64(99), c.Dashboard.Seed)
	assert.Equal(t, "pastas", c.Mongo.Database)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte("backend: [oops"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
