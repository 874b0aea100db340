package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RUNSMITH_TRACING", "RUNSMITH_ENDPOINT", "RUNSMITH_API_KEY",
		"RUNSMITH_PROJECT", "RUNSMITH_TENANT_ID", "RUNSMITH_LOG_LEVEL",
		"RUNSMITH_LOG_DEV", FileEnvVar,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	Reset()
	t.Cleanup(Reset)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.Tracing)
	assert.Equal(t, "https://api.runsmith.dev", cfg.Endpoint)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.Project)
	assert.Empty(t, cfg.TenantID)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUNSMITH_TRACING", "true")
	t.Setenv("RUNSMITH_ENDPOINT", "https://collector.example.com")
	t.Setenv("RUNSMITH_API_KEY", "sk-test")
	t.Setenv("RUNSMITH_PROJECT", "demo")
	t.Setenv("RUNSMITH_TENANT_ID", "tenant-1")
	t.Setenv("RUNSMITH_LOG_LEVEL", "debug")
	t.Setenv("RUNSMITH_LOG_DEV", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.Tracing)
	assert.Equal(t, "https://collector.example.com", cfg.Endpoint)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "demo", cfg.Project)
	assert.Equal(t, "tenant-1", cfg.TenantID)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadRequiresAPIKeyWhenTracingEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUNSMITH_TRACING", "true")

	_, err := Load()

	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestLoadAllowsMissingAPIKeyWhenDisabled(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.Tracing)
}

func TestFileOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUNSMITH_API_KEY", "sk-env")

	path := filepath.Join(t.TempDir(), "runsmith.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
tracing = true
endpoint = "https://file.example.com"
project = "from-file"
`), 0o644))
	t.Setenv(FileEnvVar, path)

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.Tracing)
	assert.Equal(t, "https://file.example.com", cfg.Endpoint)
	assert.Equal(t, "from-file", cfg.Project)
	assert.Equal(t, "sk-env", cfg.APIKey, "file leaves unset fields alone")
}

func TestFileOverlayMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(FileEnvVar, filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()

	assert.Error(t, err)
}

func TestGetCachesAcrossCalls(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUNSMITH_PROJECT", "first")

	first, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "first", first.Project)

	// The cache holds the process-start view of the environment.
	t.Setenv("RUNSMITH_PROJECT", "second")
	again, err := Get()
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, "first", again.Project)

	Reset()
	reloaded, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "second", reloaded.Project)
}
