package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Minute, cfg.OTPCooldown())
	assert.Equal(t, 4*time.Second, cfg.DestructionDuration())
	assert.True(t, cfg.WatermarkEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server_url: https://bar.example.com
request_timeout_seconds: 10
otp_cooldown_seconds: 120
watermark_enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://bar.example.com", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 2*time.Minute, cfg.OTPCooldown())
	assert.False(t, cfg.WatermarkEnabled)

	// Unset fields keep their defaults
	assert.Equal(t, 4, cfg.DestructionSeconds)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: https://file.example.com\n"), 0o600))

	t.Setenv("BAR_SERVER_URL", "https://env.example.com")
	t.Setenv("BAR_OTP_COOLDOWN_SECONDS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.OTPCooldown())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ServerURL)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServerURL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RequestTimeoutSeconds = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DestructionSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.OTPCooldownSeconds = -1
	assert.Error(t, cfg.Validate())
}
