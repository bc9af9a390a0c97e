package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main struct that holds all configuration for the application.
// It is constructed once at startup and treated as read-only afterwards.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Email    EmailConfig    `mapstructure:"email"`
	SendGrid SendGridConfig `mapstructure:"sendgrid"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

// LoggerConfig holds logging-specific settings.
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// HTTPConfig holds HTTP server-specific settings.
type HTTPConfig struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// Addr returns the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// DatabaseConfig holds the MongoDB connection settings. Both fields are
// optional; the application serves diagnostics even without a database.
type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

// EmailConfig holds the notification recipient and sender identity.
type EmailConfig struct {
	To       string `mapstructure:"to"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

// SendGridConfig holds credentials for the SendGrid REST provider.
type SendGridConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Configured reports whether the SendGrid provider can be used.
func (c SendGridConfig) Configured() bool {
	return c.APIKey != ""
}

// SMTPConfig holds settings for the SMTP fallback provider.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	StartTLS bool   `mapstructure:"starttls"`
}

// Configured reports whether the SMTP provider can be used.
// Host, username and password are all required; port and STARTTLS
// have defaults.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// MissingProviderEnv lists the environment variables that would have to be
// set before any email provider becomes usable. Used for the dispatcher's
// "nothing configured" warning.
func (c *Config) MissingProviderEnv() []string {
	var missing []string
	if c.SendGrid.APIKey == "" {
		missing = append(missing, "SENDGRID_API_KEY")
	}
	if c.SMTP.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.SMTP.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.SMTP.Password == "" {
		missing = append(missing, "SMTP_PASS")
	}
	return missing
}

// envBindings maps viper keys to their environment variable names.
// The names are part of the deployment contract and must not change.
var envBindings = map[string]string{
	"logger.level":     "LOG_LEVEL",
	"http.port":        "PORT",
	"http.gin_mode":    "GIN_MODE",
	"database.url":     "DATABASE_URL",
	"database.name":    "DATABASE_NAME",
	"email.to":         "EMAIL_TO",
	"email.from":       "EMAIL_FROM",
	"email.from_name":  "EMAIL_FROM_NAME",
	"sendgrid.api_key": "SENDGRID_API_KEY",
	"smtp.host":        "SMTP_HOST",
	"smtp.port":        "SMTP_PORT",
	"smtp.username":    "SMTP_USER",
	"smtp.password":    "SMTP_PASS",
	"smtp.starttls":    "SMTP_STARTTLS",
}

// NewConfig reads environment variables (and an optional .env file) and
// returns a populated configuration struct.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("logger.level", "info")
	v.SetDefault("http.port", "8000")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("database.url", "")
	v.SetDefault("database.name", "")
	v.SetDefault("email.to", "leads@neonlabs.app")
	// From address and display name fall back to literal defaults inside
	// the senders, after the SMTP username, so they stay empty here.
	v.SetDefault("email.from", "")
	v.SetDefault("email.from_name", "")
	v.SetDefault("sendgrid.api_key", "")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.starttls", true)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
