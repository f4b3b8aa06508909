package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "device-sheets", cfg.Storage.Bucket)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "categories.yaml", cfg.Sync.CategoriesFile)
	assert.Equal(t, "limits.json", cfg.Sync.LimitsObject)
	assert.Equal(t, 5*time.Minute, cfg.Sync.SizingCacheTTL())
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SYNC_SHEET_PREFIX", "exports/line-2")
	t.Setenv("SYNC_SIZING_CACHE_TTL_SECONDS", "0")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("DATABASE_PORT", "3307")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "exports/line-2", cfg.Sync.SheetPrefix)
	assert.Equal(t, time.Duration(0), cfg.Sync.SizingCacheTTL())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3307, cfg.Database.Port)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_API_KEY=secret\nLOG_FORMAT=console\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SERVER_API_KEY")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Server.ApiKey)
	assert.Equal(t, "console", cfg.Log.Format)
}
