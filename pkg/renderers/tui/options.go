package tui

import (
	"os"

	"github.com/goliatone/go-solverform/pkg/i18n"
)

// Theme captures optional message prefixes. Keep minimal to avoid coupling
// prompt logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Prompter and the Renderer.
type Option func(*config)

type config struct {
	driver     PromptDriver
	translator i18n.Translator
	readFile   func(path string) ([]byte, error)
	theme      Theme
	imagePath  string
}

func newConfig(options []Option) config {
	cfg := config{readFile: os.ReadFile}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.translator == nil {
		if catalog, err := i18n.Default(); err == nil {
			cfg.translator = catalog
		}
	}
	return cfg
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithTranslator overrides the string table used for prompts.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithReadFile replaces os.ReadFile for model and data paths.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.readFile = fn
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// WithImagePath makes the renderer report where the result graph was saved.
func WithImagePath(path string) Option {
	return func(cfg *config) {
		cfg.imagePath = path
	}
}
