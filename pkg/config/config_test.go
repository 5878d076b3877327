package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultProvider, cfg.SelectedProvider)
	assert.Equal(t, DefaultModel, cfg.SelectedModel)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.EqualValues(t, DefaultMaxUploadMB, cfg.Server.MaxUploadMB)
	assert.NotNil(t, cfg.Providers)
}

func TestLoadFile_PartialServerBlockKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.EqualValues(t, DefaultMaxUploadMB, cfg.Server.MaxUploadMB)
	assert.NotEmpty(t, cfg.Server.UploadDir)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [unterminated"), 0600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestSaveFile_KeepsKeysPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.SetAPIKey("gemini", "secret")
	require.NoError(t, SaveFile(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", loaded.GetAPIKey("gemini"))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("CMMC_LENS_ADDR", ":7070")
	t.Setenv("CMMC_LENS_UPLOAD_DIR", "/tmp/uploads-test")
	t.Setenv("CMMC_LENS_MAX_UPLOAD_MB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GetAPIKey("gemini"))
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "/tmp/uploads-test", cfg.Server.UploadDir)
	assert.EqualValues(t, 2, cfg.Server.MaxUploadMB)
}

func TestLoadConfig_RejectsNonPositiveUploadLimit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CMMC_LENS_MAX_UPLOAD_MB", "-1")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "max_upload_mb must be positive")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CMMC_LENS_TEST_VALUE=loaded\n"), 0600))
	t.Setenv("CMMC_LENS_TEST_VALUE", "")
	os.Unsetenv("CMMC_LENS_TEST_VALUE")

	assert.Equal(t, envPath, LoadEnv(filepath.Join(dir, "missing.env"), envPath))
	assert.Equal(t, "loaded", os.Getenv("CMMC_LENS_TEST_VALUE"))
	assert.Equal(t, "", LoadEnv(filepath.Join(dir, "missing.env")))
}
