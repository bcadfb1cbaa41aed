// Package config loads solverform settings from defaults, an optional YAML
// file, .env files and SOLVERFORM_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/solver"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SOLVERFORM_"

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 10 << 20
	DefaultSessionTTL     = 30 * time.Minute
	DefaultShutdown       = 10 * time.Second
	DefaultTimeoutSeconds = 60
	DefaultLogLevel       = "info"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Solver SolverConfig `yaml:"solver"`
	Form   FormConfig   `yaml:"form"`
	Theme  ThemeConfig  `yaml:"theme"`
	Info   InfoConfig   `yaml:"info"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SecureCookies   bool          `yaml:"secure_cookies"`
}

// SolverConfig configures the outbound solver client. A zero RequestTimeout
// leaves requests unbounded, matching the solver's own timeout handling.
type SolverConfig struct {
	URL              string        `yaml:"url"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	MaxResponseBytes int64         `yaml:"max_response_bytes"`
}

// FormConfig seeds new sessions.
type FormConfig struct {
	Locale         string `yaml:"locale"`
	InputType      string `yaml:"input_type"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// ThemeConfig selects the page theme.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// InfoConfig replaces the built-in info panel text with HTML, either inline
// or read from File.
type InfoConfig struct {
	HTML string `yaml:"html"`
	File string `yaml:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			SessionTTL:      DefaultSessionTTL,
			ShutdownTimeout: DefaultShutdown,
		},
		Solver: SolverConfig{
			URL: solver.DefaultEndpoint,
		},
		Form: FormConfig{
			Locale:         string(i18n.DefaultLocale),
			InputType:      string(solver.InputFile),
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is the YAML file to read. Empty means $SOLVERFORM_CONFIG, and no
	// file when that is unset too.
	Path string
	// EnvFiles are .env files to read. Missing files are skipped. Nil means
	// ".env".
	EnvFiles []string
	// LookupEnv replaces os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	lookupProcess := opts.LookupEnv
	if lookupProcess == nil {
		lookupProcess = os.LookupEnv
	}

	dotenv, err := readEnvFiles(opts.EnvFiles)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if value, ok := lookupProcess(key); ok {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}

	path := opts.Path
	if path == "" {
		path, _ = lookup(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readEnvFiles(paths []string) (map[string]string, error) {
	if paths == nil {
		paths = []string{".env"}
	}
	out := make(map[string]string)
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		for key, value := range values {
			if _, exists := out[key]; !exists {
				out[key] = value
			}
		}
	}
	return out, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dest *string) {
		if value, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(value) != "" {
			*dest = strings.TrimSpace(value)
		}
	}
	var errs []error
	integer := func(name string, dest *int) {
		if value, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(value) != "" {
			parsed, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dest = parsed
		}
	}
	duration := func(name string, dest *time.Duration) {
		if value, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(value) != "" {
			parsed, err := time.ParseDuration(strings.TrimSpace(value))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dest = parsed
		}
	}
	boolean := func(name string, dest *bool) {
		if value, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(value) != "" {
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dest = parsed
		}
	}

	str("ADDR", &c.Server.Addr)
	duration("SESSION_TTL", &c.Server.SessionTTL)
	duration("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	boolean("SECURE_COOKIES", &c.Server.SecureCookies)
	var uploadMB int
	integer("MAX_UPLOAD_MB", &uploadMB)
	if uploadMB > 0 {
		c.Server.MaxUploadBytes = int64(uploadMB) << 20
	}

	str("SOLVER_URL", &c.Solver.URL)
	duration("REQUEST_TIMEOUT", &c.Solver.RequestTimeout)

	str("LOCALE", &c.Form.Locale)
	str("INPUT_TYPE", &c.Form.InputType)
	integer("TIMEOUT", &c.Form.TimeoutSeconds)

	str("THEME", &c.Theme.Name)
	str("THEME_VARIANT", &c.Theme.Variant)

	str("INFO_FILE", &c.Info.File)

	str("LOG_LEVEL", &c.Log.Level)
	boolean("LOG_DEVELOPMENT", &c.Log.Development)

	return errors.Join(errs...)
}

// Validate checks and normalises the configuration.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("config: server.addr is required"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Server.SessionTTL <= 0 {
		c.Server.SessionTTL = DefaultSessionTTL
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdown
	}

	if parsed, err := url.Parse(c.Solver.URL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("config: solver.url %q must be an absolute URL", c.Solver.URL))
	}
	if c.Solver.RequestTimeout < 0 {
		errs = append(errs, errors.New("config: solver.request_timeout must not be negative"))
	}

	locale, err := i18n.ParseLocale(c.Form.Locale)
	if err != nil {
		errs = append(errs, fmt.Errorf("config: form.locale: %w", err))
	} else {
		c.Form.Locale = string(locale)
	}
	if c.Form.InputType == "" {
		c.Form.InputType = string(solver.InputFile)
	}
	if _, err := solver.ParseInputType(c.Form.InputType); err != nil {
		errs = append(errs, fmt.Errorf("config: form.input_type: %w", err))
	}
	if c.Form.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("config: form.timeout must be at least 1, got %d", c.Form.TimeoutSeconds))
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	return errors.Join(errs...)
}

// InfoHTML returns the configured info panel HTML, reading Info.File when
// set. The result is not sanitised.
func (c Config) InfoHTML() (string, error) {
	if c.Info.File == "" {
		return c.Info.HTML, nil
	}
	data, err := os.ReadFile(c.Info.File)
	if err != nil {
		return "", fmt.Errorf("config: read info file: %w", err)
	}
	return string(data), nil
}

// Locale returns the configured default locale.
func (c Config) Locale() i18n.Locale {
	locale, err := i18n.ParseLocale(c.Form.Locale)
	if err != nil {
		return i18n.DefaultLocale
	}
	return locale
}
