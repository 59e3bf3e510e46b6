package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gumanista/hate-2-action/pkg/errors"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_URL", " http://127.0.0.1:8000 ")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Address())
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout())
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.OTLPEnabled)
}

func TestLoad_MissingAPIURL(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("API_KEY", "secret")

	_, err := Load(missingEnvFile(t))
	var missing *errors.ConfigurationMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "API_URL", missing.Key)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("API_URL", "http://127.0.0.1:8000")
	t.Setenv("API_KEY", "  ")

	_, err := Load(missingEnvFile(t))
	var missing *errors.ConfigurationMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "API_KEY", missing.Key)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestLoad_ReadsDotenv(t *testing.T) {
	for _, key := range []string{"API_URL", "API_KEY", "BACKEND_TIMEOUT"} {
		if _, set := os.LookupEnv(key); set {
			t.Skipf("%s is set in the environment", key)
		}
	}
	t.Cleanup(func() {
		os.Unsetenv("API_URL")
		os.Unsetenv("API_KEY")
		os.Unsetenv("BACKEND_TIMEOUT")
	})

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("API_URL=http://backend:8000\nAPI_KEY=from-file\nBACKEND_TIMEOUT=5s\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.APIURL)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
}

func TestRead_SkipsValidation(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("API_KEY", "")

	cfg, err := Read(missingEnvFile(t))
	require.NoError(t, err)
	assert.Empty(t, cfg.APIURL)
}
