package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// BackendConfig describes how to reach the backend API.
type BackendConfig struct {
	// BaseURL is the root URL of the backend API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds every outgoing backend request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// AuthViaProxy sends login, register and logout through the dashboard
	// server at Server.PublicOrigin instead of straight to the backend.
	AuthViaProxy bool `mapstructure:"auth_via_proxy" yaml:"auth_via_proxy"`
}

// ServerConfig holds settings for the dashboard server.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// PublicOrigin is the externally reachable origin of the dashboard
	// server, used when the server calls its own endpoints.
	PublicOrigin string `mapstructure:"public_origin" yaml:"public_origin"`

	// CookieName names the session cookie.
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`

	// Environment is "development" or "production".
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// DevBackendConfig holds settings for the local reference backend.
type DevBackendConfig struct {
	ListenAddr    string `mapstructure:"listen_addr" yaml:"listen_addr"`
	DBPath        string `mapstructure:"db_path" yaml:"db_path"`
	JWTSecret     string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours" yaml:"token_ttl_hours"`

	// RedisAddr enables the Redis-backed logout denylist when set.
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`
}

// AIConfig holds settings for the assistant used by the reference backend.
type AIConfig struct {
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// LogConfig controls logger verbosity and optional file output.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// WatchConfig holds settings for the live dashboard view.
type WatchConfig struct {
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend    BackendConfig    `mapstructure:"backend" yaml:"backend"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	DevBackend DevBackendConfig `mapstructure:"dev_backend" yaml:"dev_backend"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Watch      WatchConfig      `mapstructure:"watch" yaml:"watch"`
}

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "auth-token"

// envBindings maps configuration keys to the environment variables that
// override them.
var envBindings = map[string]string{
	"backend.base_url":        "BACKEND_URL",
	"backend.auth_via_proxy":  "AUTH_VIA_PROXY",
	"server.public_origin":    "PUBLIC_ORIGIN",
	"server.listen_addr":      "LISTEN_ADDR",
	"server.cookie_name":      "AUTH_COOKIE_NAME",
	"server.environment":      "ENVIRONMENT",
	"dev_backend.listen_addr": "DEV_BACKEND_ADDR",
	"dev_backend.db_path":     "DEV_DB_PATH",
	"dev_backend.jwt_secret":  "JWT_SECRET",
	"dev_backend.redis_addr":  "REDIS_ADDR",
	"ai.api_key":              "ANTHROPIC_API_KEY",
	"log.level":               "LOG_LEVEL",
	"log.file":                "LOG_FILE",
	"watch.poll_interval_sec": "WATCH_POLL_INTERVAL_SEC",
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/studydash/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "studydash", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{
			BaseURL:    "http://127.0.0.1:8081",
			TimeoutSec: 15,
		},
		Server: ServerConfig{
			ListenAddr:  "127.0.0.1:8080",
			CookieName:  DefaultCookieName,
			Environment: "development",
		},
		DevBackend: DevBackendConfig{
			ListenAddr:    "127.0.0.1:8081",
			DBPath:        "studydash.db",
			JWTSecret:     "dev-secret-change-me",
			TokenTTLHours: 24 * 7,
		},
		AI: AIConfig{
			Model:     "claude-sonnet-4-5-20250929",
			MaxTokens: 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			PollIntervalSec: 30,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies environment overrides. If the file does not exist, defaults
// are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("backend.base_url", def.Backend.BaseURL)
	v.SetDefault("backend.timeout_sec", def.Backend.TimeoutSec)
	v.SetDefault("backend.auth_via_proxy", false)
	v.SetDefault("server.listen_addr", def.Server.ListenAddr)
	v.SetDefault("server.public_origin", "")
	v.SetDefault("server.cookie_name", def.Server.CookieName)
	v.SetDefault("server.environment", def.Server.Environment)
	v.SetDefault("dev_backend.listen_addr", def.DevBackend.ListenAddr)
	v.SetDefault("dev_backend.db_path", def.DevBackend.DBPath)
	v.SetDefault("dev_backend.jwt_secret", def.DevBackend.JWTSecret)
	v.SetDefault("dev_backend.token_ttl_hours", def.DevBackend.TokenTTLHours)
	v.SetDefault("dev_backend.redis_addr", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", def.AI.Model)
	v.SetDefault("ai.max_tokens", def.AI.MaxTokens)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("watch.poll_interval_sec", def.Watch.PollIntervalSec)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s to %s: %w", key, env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		_, pathErr := err.(*os.PathError)
		if !notFound && !pathErr {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills values that cannot be expressed as static defaults.
func (c *AppConfig) applyDefaults() {
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.TimeoutSec <= 0 {
		c.Backend.TimeoutSec = 15
	}
	if strings.TrimSpace(c.Server.CookieName) == "" {
		c.Server.CookieName = DefaultCookieName
	}
	if c.Server.PublicOrigin == "" {
		c.Server.PublicOrigin = "http://" + c.Server.ListenAddr
	}
	c.Server.PublicOrigin = strings.TrimRight(c.Server.PublicOrigin, "/")
	if c.DevBackend.TokenTTLHours <= 0 {
		c.DevBackend.TokenTTLHours = 24 * 7
	}
	if c.Watch.PollIntervalSec <= 0 {
		c.Watch.PollIntervalSec = 30
	}
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("server", cfg.Server)
	v.Set("dev_backend", cfg.DevBackend)
	v.Set("ai", cfg.AI)
	v.Set("log", cfg.Log)
	v.Set("watch", cfg.Watch)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
