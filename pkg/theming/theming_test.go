package theming

import (
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
)

func TestCatalog_DefaultSelection(t *testing.T) {
	catalog := NewCatalog()

	cfg, err := catalog.Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != DefaultTheme || cfg.Variant != DefaultVariant {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if got := cfg.AssetURL(StylesheetAsset); got != "/assets/solverform.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
	if cfg.Partials["page.form"] != "partials/form.tpl" {
		t.Fatalf("fallback partials not applied: %+v", cfg.Partials)
	}
}

func TestCatalog_DarkVariantOverridesTokens(t *testing.T) {
	catalog := NewCatalog()

	cfg, err := catalog.Resolve(DefaultTheme, "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Tokens["color-bg"] != "#111827" {
		t.Fatalf("variant token not applied, got %s", cfg.Tokens["color-bg"])
	}
	if cfg.CSSVars["--color-bg"] != "#111827" {
		t.Fatalf("css var not derived from variant token")
	}
	if cfg.Tokens["radius"] != "6px" {
		t.Fatalf("base token lost in merge")
	}
}

func TestCatalog_UnknownSelections(t *testing.T) {
	catalog := NewCatalog()

	if _, err := catalog.Select("acme", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := catalog.Select(DefaultTheme, "sepia"); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestCatalog_RegisterCustomManifest(t *testing.T) {
	catalog := NewCatalog()
	err := catalog.Register(&theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"color-primary": "#123456"},
		Templates: map[string]string{
			"page.info": "themes/acme/info.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{StylesheetAsset: "acme.css"},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	catalog.SetDefaults("acme", "")

	cfg, err := catalog.Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != "acme" {
		t.Fatalf("defaults not applied, got %s", cfg.Theme)
	}
	if cfg.Partials["page.info"] != "themes/acme/info.tpl" || cfg.Partials["page.form"] != "partials/form.tpl" {
		t.Fatalf("unexpected partials %+v", cfg.Partials)
	}
	if got := cfg.AssetURL(StylesheetAsset); got != "/assets/themes/acme/acme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"})
	want := ":root {\n  --a: 1;\n  --b: 2;\n}"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if CSSVarsStyle(nil) != "" {
		t.Fatalf("expected empty style for no vars")
	}
	if !strings.HasPrefix(CSSVarsStyle(map[string]string{"--x": "y"}), ":root") {
		t.Fatalf("expected :root block")
	}
}
