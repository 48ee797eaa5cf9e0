package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadq/threadq/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.StoreBackendMongo, cfg.Store.Backend)
	assert.Equal(t, config.DefaultMongoURI, cfg.Store.URI)
	assert.Equal(t, config.DefaultDatabase, cfg.Store.Database)
	assert.Equal(t, config.DefaultStoreTimeout, cfg.Store.Timeout)
	assert.Equal(t, config.DefaultPageSize, cfg.Query.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: memory
  uri: mongodb://db0.internal:27017
  database: messaging
query:
  page_size: 25
log:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, "mongodb://db0.internal:27017", cfg.Store.URI)
	assert.Equal(t, "messaging", cfg.Store.Database)
	assert.Equal(t, config.DefaultStoreTimeout, cfg.Store.Timeout)
	assert.Equal(t, 25, cfg.Query.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset values still get defaults.
	assert.Equal(t, config.MaxPageSize, cfg.Query.MaxPageSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("THREADQ_MONGO_URI", "mongodb://db1.internal:27017")
	t.Setenv("THREADQ_PAGE_SIZE", "10")
	t.Setenv("THREADQ_LOG_LEVEL", "warn")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db1.internal:27017", cfg.Store.URI)
	assert.Equal(t, 10, cfg.Query.PageSize)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := config.Load(writeConfig(t, "store:\n  backend: cassandra\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")

	_, err = config.Load(writeConfig(t, "log:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")

	_, err = config.Load(writeConfig(t, "query:\n  page_size: 1000\n  max_page_size: 100\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size")
}
