package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8088
  mode: test
  read_timeout: 5s
database:
  host: db.internal
  port: 5433
  user: atlas
  password: secret
  db_name: atlas
redis:
  addr: cache:6379
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  group_id: atlas-test
explorer:
  page_size: 500
  top_n: 10
auth:
  jwt_secret: "0123456789abcdef0123"
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 500, cfg.Explorer.PageSize)
	assert.Equal(t, 10, cfg.Explorer.TopN)
	assert.Equal(t, DefaultMarkerBatchSize, cfg.Explorer.MarkerBatchSize)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server:\n  mode: production\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ATLAS_DATABASE_HOST", "override.internal")
	t.Setenv("ATLAS_EXPLORER_PAGE_SIZE", "200")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 200, cfg.Explorer.PageSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ATLAS_SERVER_PORT", "9000")
	t.Setenv("ATLAS_REDIS_ADDR", "redis.env:6379")
	t.Setenv("ATLAS_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "redis.env:6379", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ATLAS_TEST_DOTENV_A=from-file\nATLAS_TEST_DOTENV_B=from-file\n"), 0o600))

	t.Setenv("ATLAS_TEST_DOTENV_A", "from-env")
	LoadDotEnv(envFile, filepath.Join(dir, "missing.env"))
	t.Cleanup(func() { os.Unsetenv("ATLAS_TEST_DOTENV_B") })

	assert.Equal(t, "from-env", os.Getenv("ATLAS_TEST_DOTENV_A"))
	assert.Equal(t, "from-file", os.Getenv("ATLAS_TEST_DOTENV_B"))
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}

//Personal.AI order the ending
