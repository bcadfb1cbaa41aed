package i18n_test

import (
	"testing"

	"github.com/goliatone/go-solverform/pkg/i18n"
)

func TestTemplateFuncs_ResolvesLocaleSources(t *testing.T) {
	funcs := i18n.TemplateFuncs(i18n.MustDefault(), i18n.TemplateConfig{})

	translate, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("translate helper has unexpected type %T", funcs["translate"])
	}

	if got := translate("en", "result"); got != "Result:" {
		t.Fatalf("string locale: got %q", got)
	}
	if got := translate(map[string]any{"locale": "it"}, "result"); got != "Risultato:" {
		t.Fatalf("map locale: got %q", got)
	}
	view := struct{ Locale string }{Locale: "en"}
	if got := translate(&view, "solve"); got != "Solve" {
		t.Fatalf("struct locale: got %q", got)
	}
	if got := translate("en", "missing.key"); got != "missing.key" {
		t.Fatalf("missing key fallback: got %q", got)
	}
}

func TestTemplateFuncs_CustomNameAndMissingHandler(t *testing.T) {
	funcs := i18n.TemplateFuncs(nil, i18n.TemplateConfig{
		FuncName: "t",
		OnMissing: func(locale, key string, _ []any, _ error) string {
			return "[" + locale + ":" + key + "]"
		},
	})

	translate := funcs["t"].(func(any, string, ...any) string)
	if got := translate("en", "solve"); got != "[en:solve]" {
		t.Fatalf("got %q", got)
	}

	current := funcs["current_locale"].(func(any) string)
	if got := current(map[string]string{"locale": "it"}); got != "it" {
		t.Fatalf("current_locale: got %q", got)
	}
}
