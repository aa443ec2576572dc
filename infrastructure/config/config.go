// Package config loads suite settings from defaults, an optional YAML file,
// an optional .env file and EMPSD_* environment variables, in rising order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"empsd_automation/domain/entities"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EMPSD_BASE_URL
const EnvPrefix = "EMPSD"

// Config holds every suite setting
type Config struct {
	BaseURL     string            `mapstructure:"base_url"`
	LoginURL    string            `mapstructure:"login_url"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Timeouts    entities.Timeouts `mapstructure:"timeouts"`
	Browser     BrowserConfig     `mapstructure:"browser"`
	Expected    ExpectedConfig    `mapstructure:"expected"`
	Screenshots ScreenshotConfig  `mapstructure:"screenshots"`
	Runner      RunnerConfig      `mapstructure:"runner"`
	Log         LogConfig         `mapstructure:"log"`
}

// CredentialsConfig holds the accounts used by the authentication cases
type CredentialsConfig struct {
	Valid   entities.User `mapstructure:"valid"`
	Invalid entities.User `mapstructure:"invalid"`
}

// BrowserConfig configures the launched browser
type BrowserConfig struct {
	Engine   string            `mapstructure:"engine"` // chromium, firefox or webkit
	Headless bool              `mapstructure:"headless"`
	SlowMo   time.Duration     `mapstructure:"slow_mo"`
	Viewport entities.Viewport `mapstructure:"viewport"`
}

// ExpectedConfig holds the texts the UI is checked against
type ExpectedConfig struct {
	Title   string `mapstructure:"title"`
	Heading string `mapstructure:"heading"`
}

// ScreenshotConfig configures screenshot artifacts
type ScreenshotConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	OnFailure bool   `mapstructure:"on_failure"`
}

// RunnerConfig configures case execution
type RunnerConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://pln-fe.dev.embrio.id")
	v.SetDefault("login_url", "https://pln-fe.dev.embrio.id/login?redirect=%2F")

	v.SetDefault("credentials.valid.email", "admin@vhiweb.com")
	v.SetDefault("credentials.valid.password", "Admin123@")
	v.SetDefault("credentials.valid.role", "admin")
	v.SetDefault("credentials.invalid.email", "invalid@test.com")
	v.SetDefault("credentials.invalid.password", "wrongpassword")

	t := entities.DefaultTimeouts()
	v.SetDefault("timeouts.short", t.Short)
	v.SetDefault("timeouts.medium", t.Medium)
	v.SetDefault("timeouts.long", t.Long)
	v.SetDefault("timeouts.very_long", t.VeryLong)

	v.SetDefault("browser.engine", "chromium")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.slow_mo", 100*time.Millisecond)
	v.SetDefault("browser.viewport.width", 1280)
	v.SetDefault("browser.viewport.height", 720)

	v.SetDefault("expected.title", "PLN EMPSD")
	v.SetDefault("expected.heading", "EMPSD")

	v.SetDefault("screenshots.enabled", true)
	v.SetDefault("screenshots.path", "test-results/screenshots/")
	v.SetDefault("screenshots.on_failure", true)

	v.SetDefault("runner.workers", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NewViper - creates a viper instance with defaults and env overrides bound.
// configFile may be empty, in which case ./empsd.yaml is read if present.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("empsd")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load reads the .env file, if any, and then the configuration
func Load(configFile string) (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the suite cannot run with
func (c *Config) Validate() error {
	for key, raw := range map[string]string{"base_url": c.BaseURL, "login_url": c.LoginURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
		}
	}
	t := c.Timeouts
	if t.Short <= 0 || t.Medium <= 0 || t.Long <= 0 || t.VeryLong <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if t.Short > t.Medium || t.Medium > t.Long || t.Long > t.VeryLong {
		return fmt.Errorf("timeouts must be ordered short <= medium <= long <= very_long")
	}
	switch c.Browser.Engine {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("browser.engine must be chromium, firefox or webkit, got %q", c.Browser.Engine)
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport must be positive, got %dx%d", c.Browser.Viewport.Width, c.Browser.Viewport.Height)
	}
	if c.Runner.Workers < 1 {
		return fmt.Errorf("runner.workers must be a positive integer")
	}
	if c.Screenshots.Enabled && strings.TrimSpace(c.Screenshots.Path) == "" {
		return fmt.Errorf("screenshots.path is required when screenshots are enabled")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// HomeURL returns the application root
func (c *Config) HomeURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/"
}

// DashboardURL returns the screen shown after login
func (c *Config) DashboardURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/dashboard"
}

// NewLogger - creates a logger writing to w at the configured level and format
func (c LogConfig) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger, nil
}
