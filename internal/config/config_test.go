package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProjectCatalog/internal/infrastructure/export"
	"ProjectCatalog/internal/infrastructure/storage"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databasePathEnv, "")
	t.Setenv(storageKeyEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(serverPortEnv, "")

	cfg := Load()
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, storage.DefaultKey, cfg.Storage.Key)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
storage:
  path: /var/lib/catalog.db
server:
  port: 9000
  maxUploadBytes: 1048576
import:
  watchPath: /data/export.csv
`), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(databasePathEnv, "")
	t.Setenv(storageKeyEnv, "archive_v11")
	t.Setenv(logLevelEnv, "")
	t.Setenv(serverPortEnv, "9100")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/var/lib/catalog.db", cfg.Storage.Path)
	assert.Equal(t, "archive_v11", cfg.Storage.Key)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "/data/export.csv", cfg.Import.WatchPath)
	assert.Equal(t, export.DefaultFileName, cfg.Export.FileName)
}

func TestLoadBrokenFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(databasePathEnv, "")
	t.Setenv(storageKeyEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(serverPortEnv, "not-a-port")

	assert.Equal(t, defaultConfig(), Load())
}
