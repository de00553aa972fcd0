package config

import (
	"errors"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

type TgBot struct {
	Enabled          bool   `toml:"enabled"`
	TelegramApiToken string `toml:"telegram_apitoken"`
	// SubscribePass is asked by /sub before a chat receives mail notifications.
	SubscribePass string `toml:"subscribe_password"`
	SqliteFile    string `toml:"sqlite_file"`
}

type Server struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Debug    bool   `toml:"debug_mode"`
	LogLevel string `toml:"log_level"`
	SiteName string `toml:"site_name"`
	// CertFile and KeyFile switch the listener to https when both are set.
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

type Backend struct {
	BaseURL         string   `toml:"base_url"`
	Timeout         Duration `toml:"timeout"`
	DownloadTimeout Duration `toml:"download_timeout"`
	// Service account used by scheduled jobs.
	ServiceUsername string `toml:"service_username"`
	ServicePassword string `toml:"service_password"`
}

type Auth struct {
	CookieDomain string   `toml:"cookie_domain"`
	SecureCookie bool     `toml:"secure_cookie"`
	ResolveWait  Duration `toml:"resolve_wait"`
	SessionTTL   Duration `toml:"session_ttl"`
	LoginRate    float64  `toml:"login_rate"`
	LoginBurst   int      `toml:"login_burst"`
}

type Mail struct {
	CheckSchedule string `toml:"check_schedule"`
}

type Config struct {
	TgBot   TgBot
	Server  Server
	Backend Backend
	Auth    Auth
	Mail    Mail
}

type serverFile struct {
	Server  Server  `toml:"server"`
	Backend Backend `toml:"backend"`
	Auth    Auth    `toml:"auth"`
	Mail    Mail    `toml:"mail"`
}

func Default() Config {
	return Config{
		TgBot: TgBot{
			SqliteFile: "bot.sqlite",
		},
		Server: Server{
			Host:     "0.0.0.0",
			Port:     3000,
			LogLevel: "info",
			SiteName: "Club",
		},
		Backend: Backend{
			BaseURL:         "http://localhost:8000",
			Timeout:         Duration{10 * time.Second},
			DownloadTimeout: Duration{30 * time.Second},
		},
		Auth: Auth{
			ResolveWait: Duration{3 * time.Second},
			SessionTTL:  Duration{15 * time.Minute},
			LoginRate:   0.5,
			LoginBurst:  5,
		},
	}
}

// New reads both config files over the defaults. A missing bot config leaves
// the bot disabled.
func New(serverPath, botPath string) (Config, error) {
	cfg := Default()

	file := serverFile{
		Server:  cfg.Server,
		Backend: cfg.Backend,
		Auth:    cfg.Auth,
		Mail:    cfg.Mail,
	}
	if _, err := toml.DecodeFile(serverPath, &file); err != nil {
		return Config{}, err
	}
	cfg.Server = file.Server
	cfg.Backend = file.Backend
	cfg.Auth = file.Auth
	cfg.Mail = file.Mail

	if botPath != "" {
		_, err := toml.DecodeFile(botPath, &cfg.TgBot)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		cfg.TgBot.TelegramApiToken = token
	}
	if u := os.Getenv("CLUBSITE_BACKEND_URL"); u != "" {
		cfg.Backend.BaseURL = u
	}
	if p := os.Getenv("CLUBSITE_SERVICE_PASSWORD"); p != "" {
		cfg.Backend.ServicePassword = p
	}
	return cfg, nil
}
