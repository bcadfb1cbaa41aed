package theming

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultTheme is the built-in theme name.
	DefaultTheme = "solverform"
	// DefaultVariant is used when no variant is requested.
	DefaultVariant = "light"
	// StylesheetAsset is the asset key of the page stylesheet.
	StylesheetAsset = "page.stylesheet"
)

var (
	// ErrThemeNotFound is returned when a requested theme was never registered.
	ErrThemeNotFound = errors.New("theming: theme not found")
	// ErrVariantNotFound is returned for an unknown variant of a known theme.
	ErrVariantNotFound = errors.New("theming: variant not found")
)

type registrar interface {
	Register(manifest *theme.Manifest) error
}

// Catalog holds registered manifests and selects a theme and variant. It
// implements theme.ThemeSelector.
type Catalog struct {
	mu             sync.RWMutex
	registry       registrar
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
	fallbacks      map[string]string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog creates a catalog preloaded with the built-in manifest.
func NewCatalog() *Catalog {
	c := &Catalog{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   DefaultTheme,
		defaultVariant: DefaultVariant,
		fallbacks:      DefaultPartials(),
	}
	if err := c.Register(BuiltinManifest()); err != nil {
		panic(err)
	}
	return c
}

// DefaultPartials are the page partials used when a manifest does not
// override them.
func DefaultPartials() map[string]string {
	return map[string]string{
		"page.form":   "partials/form.tpl",
		"page.result": "partials/result.tpl",
		"page.info":   "partials/info.tpl",
	}
}

// BuiltinManifest returns the default light/dark theme.
func BuiltinManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":      "#f5f6f8",
			"color-surface": "#ffffff",
			"color-text":    "#1f2933",
			"color-muted":   "#616e7c",
			"color-primary": "#2563eb",
			"color-error":   "#b91c1c",
			"radius":        "6px",
			"font-family":   "system-ui, sans-serif",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAsset: "solverform.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"color-bg":      "#111827",
					"color-surface": "#1f2937",
					"color-text":    "#f3f4f6",
					"color-muted":   "#9ca3af",
					"color-primary": "#60a5fa",
					"color-error":   "#f87171",
				},
			},
		},
	}
}

// Register adds or replaces a manifest.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("theming: manifest name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.manifests[manifest.Name]; !exists {
		if err := c.registry.Register(manifest); err != nil {
			return fmt.Errorf("theming: register %q: %w", manifest.Name, err)
		}
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// SetDefaults changes the theme and variant used for empty selections.
func (c *Catalog) SetDefaults(name, variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != "" {
		c.defaultTheme = name
	}
	if variant != "" {
		c.defaultVariant = variant
	}
}

// Themes lists registered theme names.
func (c *Catalog) Themes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves name and variant, falling back to the catalog defaults for
// empty values.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if name == "" {
		name = c.defaultTheme
	}
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	if variant == "" {
		variant = c.defaultVariant
	}
	if _, ok := manifest.Variants[variant]; !ok && len(manifest.Variants) > 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, name, variant)
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Resolve selects a theme and converts it to renderer configuration.
func (c *Catalog) Resolve(name, variant string) (*theme.RendererConfig, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	fallbacks := c.fallbacks
	c.mu.RUnlock()
	return RendererConfig(selection, fallbacks), nil
}

// RendererConfig merges the manifest with its selected variant. Variant
// tokens, templates and asset files override the base values; every token is
// also exposed as a "--name" CSS variable.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := merge(manifest.Tokens, variant.Tokens)
	partials := merge(fallbacks, manifest.Templates, variant.Templates)

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := merge(manifest.Assets.Files, variant.Assets.Files)

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return joinURL(prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS variables as a :root block in key order.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func merge(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}

func joinURL(prefix, file string) string {
	if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
		return file
	}
	if prefix == "" {
		return "/" + file
	}
	return strings.TrimRight(prefix, "/") + "/" + file
}
