package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service. Values come from
// config.defaults.yaml overlaid with APP_-prefixed environment variables
// (e.g. APP_LOG_LEVEL, APP_MAIL_API_KEY).
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`
	HTTPPort int    `mapstructure:"HTTP_PORT"`

	// Pull source: REST inbox-listing API. Polling is disabled when the
	// API key is empty; the service then runs webhook-only.
	MailAPIBaseURL string `mapstructure:"MAIL_API_BASE_URL"`
	MailAPIKey     string `mapstructure:"MAIL_API_KEY"`

	PollIntervalSeconds int `mapstructure:"POLL_INTERVAL_SECONDS"`
	WaitTimeoutSeconds  int `mapstructure:"WAIT_TIMEOUT_SECONDS"`
}

// PollInterval returns the configured poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// WaitTimeout returns the default bounded-wait budget as a duration.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSeconds) * time.Second
}

// Load reads configuration for the named service. serviceName is kept for
// context in layered-config setups; currently only config.defaults is read.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("MAIL_API_BASE_URL", "https://api.agentmail.to")
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("POLL_INTERVAL_SECONDS", 5)
	v.SetDefault("WAIT_TIMEOUT_SECONDS", 120)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Configuration file ('config.defaults.yaml') not found for %s; using defaults and environment variables.", serviceName)
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
