package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultPort            = "3000"
	DefaultProviderTimeout = 20 * time.Second
	DefaultAlertSchedule   = "0 9 * * *"
	DefaultAlertTimezone   = "Asia/Kolkata"
	DefaultAlertSendDelay  = time.Second
	DefaultGraphURL        = "https://graph.facebook.com/v18.0"
	DefaultHuggingFaceURL  = "https://router.huggingface.co/v1"
	DefaultHuggingFaceLLM  = "meta-llama/Llama-3.1-8B-Instruct"
)

type Config struct {
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
	WhatsApp  WhatsAppConfig  `toml:"whatsapp"`
	Providers ProvidersConfig `toml:"providers"`
	Alerts    AlertsConfig    `toml:"alerts"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Corpus    CorpusConfig    `toml:"corpus"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=json text"`
}

type ServerConfig struct {
	Port string `toml:"port" validate:"required,numeric"`
}

type WhatsAppConfig struct {
	AccessToken   string `toml:"access_token"`
	PhoneNumberID string `toml:"phone_number_id"`
	VerifyToken   string `toml:"verify_token"`
	AppSecret     string `toml:"app_secret"`
	GraphURL      string `toml:"graph_url" validate:"omitempty,url"`
}

// Enabled reports whether outbound sends can reach the provider.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

type ProvidersConfig struct {
	// Order lists provider names in tier order.
	Order       []string          `toml:"order" validate:"dive,oneof=gemini huggingface openai"`
	Timeout     Duration          `toml:"timeout"`
	Gemini      GeminiConfig      `toml:"gemini"`
	HuggingFace HuggingFaceConfig `toml:"huggingface"`
	OpenAI      OpenAIConfig      `toml:"openai"`
}

type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

type HuggingFaceConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
}

type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
}

type AlertsConfig struct {
	Enabled   bool     `toml:"enabled"`
	Schedule  string   `toml:"schedule" validate:"required"`
	Timezone  string   `toml:"timezone" validate:"required"`
	SendDelay Duration `toml:"send_delay"`
}

// Location resolves Timezone.
func (c AlertsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type PostgresConfig struct {
	URL string `toml:"url"`
}

func (c PostgresConfig) Enabled() bool { return c.URL != "" }

type CorpusConfig struct {
	// Path to a JSON or YAML corpus; empty uses the bundled one.
	Path string `toml:"path"`
}

// Duration decodes TOML strings like "1s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads .env, then the TOML file at path (a missing file is fine), then
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Log:    LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{Port: DefaultPort},
		WhatsApp: WhatsAppConfig{
			GraphURL: DefaultGraphURL,
		},
		Providers: ProvidersConfig{
			Order:   []string{"gemini", "huggingface", "openai"},
			Timeout: Duration{DefaultProviderTimeout},
			HuggingFace: HuggingFaceConfig{
				BaseURL: DefaultHuggingFaceURL,
				Model:   DefaultHuggingFaceLLM,
			},
		},
		Alerts: AlertsConfig{
			Enabled:   true,
			Schedule:  DefaultAlertSchedule,
			Timezone:  DefaultAlertTimezone,
			SendDelay: Duration{DefaultAlertSendDelay},
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Alerts.Location(); err != nil {
		return Config{}, fmt.Errorf("config: alerts timezone: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		return nil
	}

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("PORT", &cfg.Server.Port)

	str("FACEBOOK_ACCESS_TOKEN", &cfg.WhatsApp.AccessToken)
	str("FACEBOOK_PHONE_NUMBER_ID", &cfg.WhatsApp.PhoneNumberID)
	str("FACEBOOK_VERIFY_TOKEN", &cfg.WhatsApp.VerifyToken)
	str("FACEBOOK_APP_SECRET", &cfg.WhatsApp.AppSecret)
	str("FACEBOOK_GRAPH_URL", &cfg.WhatsApp.GraphURL)

	str("GOOGLE_LLM_API_KEY", &cfg.Providers.Gemini.APIKey)
	str("GOOGLE_LLM_MODEL", &cfg.Providers.Gemini.Model)
	str("HUGGINGFACE_API_KEY", &cfg.Providers.HuggingFace.APIKey)
	str("HUGGINGFACE_MODEL", &cfg.Providers.HuggingFace.Model)
	str("HUGGINGFACE_BASE_URL", &cfg.Providers.HuggingFace.BaseURL)
	str("OPENAI_API_KEY", &cfg.Providers.OpenAI.APIKey)
	str("OPENAI_MODEL", &cfg.Providers.OpenAI.Model)
	str("OPENAI_BASE_URL", &cfg.Providers.OpenAI.BaseURL)
	if v, ok := os.LookupEnv("PROVIDER_ORDER"); ok && strings.TrimSpace(v) != "" {
		cfg.Providers.Order = splitList(v)
	}
	if err := dur("PROVIDER_TIMEOUT", &cfg.Providers.Timeout); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("ALERTS_ENABLED"); ok {
		cfg.Alerts.Enabled = v != "false" && v != "0"
	}
	str("ALERT_SCHEDULE", &cfg.Alerts.Schedule)
	str("ALERT_TIMEZONE", &cfg.Alerts.Timezone)
	if err := dur("ALERT_SEND_DELAY", &cfg.Alerts.SendDelay); err != nil {
		return err
	}

	str("DATABASE_URL", &cfg.Postgres.URL)
	str("CORPUS_PATH", &cfg.Corpus.Path)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
