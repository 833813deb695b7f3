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
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "data/source_client_data.csv", cfg.Reconcile.Source)
	assert.Equal(t, "data/target_client_data.csv", cfg.Reconcile.Target)
	assert.Equal(t, "data/discrepancy_report.csv", cfg.Reconcile.Output)
	assert.Equal(t, ",", cfg.Reconcile.Delimiter)
	assert.Equal(t, "report", cfg.Reconcile.Duplicates)
	assert.Equal(t, 5*time.Minute, cfg.Reconcile.CacheTTL)
	assert.Equal(t, 1000, cfg.Generator.Records)
	assert.InDelta(t, 0.1, cfg.Generator.Rate, 1e-9)
	assert.Equal(t, int64(100), cfg.Generator.StartID)
	assert.Equal(t, uint64(42), cfg.Generator.Seed)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.False(t, cfg.Storage.UseSSL)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("RECONCILE_SOURCE", "s3://snapshots/source.csv")
	t.Setenv("RECONCILE_CACHE_TTL", "0s")
	t.Setenv("GENERATOR_RECORDS", "25")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "s3://snapshots/source.csv", cfg.Reconcile.Source)
	assert.Equal(t, time.Duration(0), cfg.Reconcile.CacheTTL)
	assert.Equal(t, 25, cfg.Generator.Records)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_DRIVER=sqlite\nDATABASE_NAME=reconcile.db\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("DATABASE_NAME")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "reconcile.db", cfg.Database.Name)
}
