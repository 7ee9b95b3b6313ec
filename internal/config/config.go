// Package config implements the runtime's layered configuration (ambient
// stack §10.3 of SPEC_FULL.md): defaults, an optional config file,
// environment variables, then explicit overrides, backed by
// github.com/spf13/viper. Grounded on the teacher's pkg/adk/adk.go
// DefaultConfig()/getEnvOrDefault pattern, generalized from a handful of
// ad-hoc os.Getenv calls into a viper instance with a single defaulting
// pass.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully-resolved runtime configuration.
type Config struct {
	Port            int           `mapstructure:"port"`
	BaseURL         string        `mapstructure:"base_url"`
	XActionsAPIURL  string        `mapstructure:"xactions_api_url"`
	SessionCookie   string        `mapstructure:"session_cookie"`
	// RateLimit is the max requests a client IP may make per 60s window,
	// per spec.md §4.9's "default 100 req/min" (internal/httpapi/middleware.go).
	RateLimit       float64       `mapstructure:"rate_limit"`
	TaskCapacity    int           `mapstructure:"task_capacity"`
	StoreDir        string        `mapstructure:"store_dir"`
	AuthRequired    bool          `mapstructure:"auth_required"`
	PushSecretPath  string        `mapstructure:"push_secret_path"`
	JWTSecretPath   string        `mapstructure:"jwt_secret_path"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	RegistryPath    string        `mapstructure:"registry_path"`
	TrustPath       string        `mapstructure:"trust_path"`
}

// defaults mirrors the teacher's DefaultConfig(): every field gets a
// sane value before the file/env/override layers are applied.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":             8080,
		"base_url":         "http://localhost:8080",
		"xactions_api_url": "https://api.x.com",
		"session_cookie":   "",
		"rate_limit":       100.0,
		"task_capacity":    10000,
		"store_dir":        "~/.xactions/a2a",
		"auth_required":    true,
		"push_secret_path": "~/.xactions/a2a/push-secret.key",
		"jwt_secret_path":  "~/.xactions/a2a/jwt-secret.key",
		"token_ttl":        time.Hour,
		"registry_path":    "~/.xactions/agents/registry.json",
		"trust_path":       "~/.xactions/agents/trust.json",
	}
}

// envBindings maps each config key to the environment variable
// SPEC_FULL.md §10.3 names for it.
var envBindings = map[string]string{
	"port":             "A2A_PORT",
	"base_url":         "A2A_BASE_URL",
	"xactions_api_url": "XACTIONS_API_URL",
	"session_cookie":   "X_SESSION_COOKIE",
	"rate_limit":       "A2A_RATE_LIMIT",
	"task_capacity":    "A2A_TASK_CAPACITY",
	"store_dir":        "A2A_STORE_DIR",
}

// Option overrides a resolved Config value, applied after file and
// environment layers (the "explicit overrides" layer of §10.3).
type Option func(*Config)

// WithPort overrides the listen port.
func WithPort(port int) Option { return func(c *Config) { c.Port = port } }

// WithAuthRequired overrides whether authentication is mandatory.
func WithAuthRequired(required bool) Option {
	return func(c *Config) { c.AuthRequired = required }
}

// Load builds a Config by layering defaults, an optional config file at
// ~/.xactions/a2a/config.yaml, environment variables, then opts, in that
// order (later layers win).
func Load(opts ...Option) (*Config, error) {
	v := viper.New()
	for key, val := range defaults() {
		v.SetDefault(key, val)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.xactions/a2a")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg, nil
}
