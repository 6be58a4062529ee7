package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RequestTimeoutMS int      `mapstructure:"REQUEST_TIMEOUT_MS"`
	MetricsEnabled   bool     `mapstructure:"METRICS_ENABLED"`

	AssistantURL       string `mapstructure:"ASSISTANT_URL"`
	AssistantAPIKey    string `mapstructure:"ASSISTANT_API_KEY"`
	AssistantModel     string `mapstructure:"ASSISTANT_MODEL"`
	AssistantTimeoutMS int    `mapstructure:"ASSISTANT_TIMEOUT_MS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT_MS", 30000)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("ASSISTANT_MODEL", "ops-medium")
	v.SetDefault("ASSISTANT_TIMEOUT_MS", 10000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("REQUEST_TIMEOUT_MS")
	v.BindEnv("METRICS_ENABLED")
	v.BindEnv("ASSISTANT_URL")
	v.BindEnv("ASSISTANT_API_KEY")
	v.BindEnv("ASSISTANT_MODEL")
	v.BindEnv("ASSISTANT_TIMEOUT_MS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.RequestTimeoutMS <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_MS must be positive")
	}
	if cfg.AssistantTimeoutMS <= 0 {
		return nil, fmt.Errorf("ASSISTANT_TIMEOUT_MS must be positive")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// RequestTimeout returns the per-request deadline as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// AssistantTimeout returns the per-call assistant deadline as a duration.
func (c *Config) AssistantTimeout() time.Duration {
	return time.Duration(c.AssistantTimeoutMS) * time.Millisecond
}

// AssistantEnabled reports whether an assistant endpoint is configured.
func (c *Config) AssistantEnabled() bool {
	return c.AssistantURL != ""
}
