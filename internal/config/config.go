// Package config resolves process settings from defaults, an optional config
// file, an optional .env file, ORDERDESK_ environment variables and flags, in
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-orderdesk/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. ORDERDESK_BASE_URL.
const EnvPrefix = "ORDERDESK"

// Keys.
const (
	KeyBaseURL       = "base_url"
	KeyTimeout       = "timeout"
	KeyLogLevel      = "log_level"
	KeyResultsFormat = "results_format"
	KeyListen        = "listen"
	KeyContractPath  = "contract_path"
	KeyThemePath     = "theme_path"
	KeyThemeVariant  = "theme_variant"
	KeyTemplatesDir  = "templates_dir"
)

// Results formats.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Config is the resolved process configuration.
type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LogLevel      string        `mapstructure:"log_level"`
	ResultsFormat string        `mapstructure:"results_format"`
	Listen        string        `mapstructure:"listen"`
	ContractPath  string        `mapstructure:"contract_path"`
	ThemePath     string        `mapstructure:"theme_path"`
	ThemeVariant  string        `mapstructure:"theme_variant"`
	TemplatesDir  string        `mapstructure:"templates_dir"`
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	configFile  string
	searchPaths []string
	envFile     string
	envRequired bool
	overrides   map[string]any
}

// WithConfigFile reads exactly this file; a missing file is an error.
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.configFile = strings.TrimSpace(path)
	}
}

// WithSearchPaths sets the directories searched for orderdesk.yaml when no
// explicit file is given.
func WithSearchPaths(paths ...string) Option {
	return func(l *loader) {
		l.searchPaths = append([]string(nil), paths...)
	}
}

// WithEnvFile loads variables from path. Unlike the default ".env", an
// explicit file must exist.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			l.envFile = trimmed
			l.envRequired = true
		}
	}
}

// WithOverride sets a value that wins over every other source. Blank strings
// and zero durations are ignored so unset flags fall through.
func WithOverride(key string, value any) Option {
	return func(l *loader) {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return
			}
		case time.Duration:
			if v == 0 {
				return
			}
		case nil:
			return
		}
		l.overrides[key] = value
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "http://localhost:5000")
	v.SetDefault(KeyTimeout, "10s")
	v.SetDefault(KeyLogLevel, logging.DefaultLevel)
	v.SetDefault(KeyResultsFormat, FormatText)
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyContractPath, "")
	v.SetDefault(KeyThemePath, "")
	v.SetDefault(KeyThemeVariant, "")
	v.SetDefault(KeyTemplatesDir, "")
}

// Load resolves the configuration.
func Load(options ...Option) (Config, error) {
	l := loader{
		searchPaths: []string{"."},
		envFile:     ".env",
		overrides:   make(map[string]any),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&l)
		}
	}

	if err := godotenv.Load(l.envFile); err != nil {
		if l.envRequired || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file %q: %w", l.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", l.configFile, err)
		}
	} else {
		v.SetConfigName("orderdesk")
		for _, path := range l.searchPaths {
			v.AddConfigPath(path)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read config: %w", err)
			}
		}
	}

	for key, value := range l.overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.ResultsFormat = strings.ToLower(strings.TrimSpace(c.ResultsFormat))
	c.Listen = strings.TrimSpace(c.Listen)
	c.ContractPath = strings.TrimSpace(c.ContractPath)
	c.ThemePath = strings.TrimSpace(c.ThemePath)
	c.ThemeVariant = strings.TrimSpace(c.ThemeVariant)
	c.TemplatesDir = strings.TrimSpace(c.TemplatesDir)
}

// Validate checks the values a command cannot start without.
func (c Config) Validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: %s %q must be an absolute URL", KeyBaseURL, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: %s must be positive", KeyTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.ResultsFormat {
	case FormatText, FormatHTML:
	default:
		return fmt.Errorf("config: %s %q must be %q or %q", KeyResultsFormat, c.ResultsFormat, FormatText, FormatHTML)
	}
	return nil
}
