package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew(t *testing.T) {
	server := writeFile(t, "server.toml", `
[server]
port = 8080
site_name = "Chess Club"

[backend]
base_url = "https://api.example.org"
timeout = "5s"

[auth]
resolve_wait = "250ms"

[mail]
check_schedule = "*/10 * * * *"
`)
	bot := writeFile(t, "bot.toml", `
enabled = true
subscribe_password = "pw"
`)
	t.Setenv("TELEGRAM_APITOKEN", "from-env")
	t.Setenv("CLUBSITE_BACKEND_URL", "")
	t.Setenv("CLUBSITE_SERVICE_PASSWORD", "")

	cfg, err := New(server, bot)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "defaults survive partial files")
	assert.Equal(t, "Chess Club", cfg.Server.SiteName)
	assert.Equal(t, "https://api.example.org", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout.Duration)
	assert.Equal(t, 30*time.Second, cfg.Backend.DownloadTimeout.Duration)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.ResolveWait.Duration)
	assert.Equal(t, "*/10 * * * *", cfg.Mail.CheckSchedule)
	assert.True(t, cfg.TgBot.Enabled)
	assert.Equal(t, "pw", cfg.TgBot.SubscribePass)
	assert.Equal(t, "from-env", cfg.TgBot.TelegramApiToken)
	assert.Equal(t, "bot.sqlite", cfg.TgBot.SqliteFile)
}

func TestNew_envOverrides(t *testing.T) {
	server := writeFile(t, "server.toml", "[backend]\nbase_url = \"http://file\"\n")
	t.Setenv("CLUBSITE_BACKEND_URL", "http://env")
	t.Setenv("CLUBSITE_SERVICE_PASSWORD", "secret")

	cfg, err := New(server, filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env", cfg.Backend.BaseURL)
	assert.Equal(t, "secret", cfg.Backend.ServicePassword)
	assert.False(t, cfg.TgBot.Enabled)
}

func TestNew_errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)

	bad := writeFile(t, "server.toml", "[backend]\ntimeout = \"soon\"\n")
	_, err = New(bad, "")
	assert.Error(t, err)
}
