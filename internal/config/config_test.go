package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	doc := `
server:
  port: "9090"
x:
  bearer_token: secret
  rps: 2
database:
  postgres_dsn: postgres://localhost/botradar
retention:
  enabled: true
  max_age: 48h
s3:
  enabled: true
  bucket: reports
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
	assert.True(t, cfg.X.Enabled())
	assert.Equal(t, 2.0, cfg.X.RPS)
	assert.Equal(t, 5, cfg.X.Burst)
	assert.Equal(t, "postgres://localhost/botradar", cfg.Database.PostgresDSN)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Retention.Enabled)
	assert.Equal(t, 48*time.Hour, cfg.Retention.MaxAge)
	assert.Equal(t, time.Hour, cfg.Retention.Interval)
	assert.True(t, cfg.S3.Enabled)
	assert.Equal(t, "reports", cfg.S3.Bucket)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestXDisabledWithoutToken(t *testing.T) {
	assert.False(t, X{}.Enabled())
}
