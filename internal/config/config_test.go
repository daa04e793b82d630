package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, []string{"gemini", "huggingface", "openai"}, cfg.Providers.Order)
	assert.Equal(t, DefaultAlertSendDelay, cfg.Alerts.SendDelay.Duration)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Postgres.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9000"

[providers]
order = ["openai"]
timeout = "5s"

[alerts]
schedule = "30 8 * * *"
timezone = "UTC"
send_delay = "250ms"
`), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("FACEBOOK_ACCESS_TOKEN", "tok")
	t.Setenv("FACEBOOK_PHONE_NUMBER_ID", "123")
	t.Setenv("PROVIDER_ORDER", "huggingface, gemini")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, []string{"huggingface", "gemini"}, cfg.Providers.Order)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout.Duration)
	assert.Equal(t, "30 8 * * *", cfg.Alerts.Schedule)
	assert.Equal(t, 250*time.Millisecond, cfg.Alerts.SendDelay.Duration)
	assert.True(t, cfg.WhatsApp.Enabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	missing := filepath.Join(t.TempDir(), "none.toml")

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("PROVIDER_ORDER", "gemini,claude")
		_, err := Load(missing)
		assert.Error(t, err)
	})
	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		_, err := Load(missing)
		assert.Error(t, err)
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("ALERT_SEND_DELAY", "soon")
		_, err := Load(missing)
		assert.Error(t, err)
	})
	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("ALERT_TIMEZONE", "Mars/Olympus")
		_, err := Load(missing)
		assert.Error(t, err)
	})
}

func TestLoadBrokenFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
