package i18n

import (
	"errors"
	"strings"
)

var (
	// ErrMissingTranslator is reported when a lookup runs without a translator.
	ErrMissingTranslator = errors.New("i18n: translator is nil")
	// ErrMissingKey is reported when a key has no entry for the locale.
	ErrMissingKey = errors.New("i18n: missing translation")
)

// Translator resolves a message key for a locale. Extra args are applied to
// the message as fmt verbs.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the string shown when a lookup fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

// T resolves key through t and falls back to the key itself, so callers that
// only need display text never deal with lookup errors.
func T(t Translator, locale Locale, key string, args ...any) string {
	return TWith(t, locale, key, missingTranslationDefault, args...)
}

// TWith behaves like T with a caller supplied fallback.
func TWith(t Translator, locale Locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(string(locale), key, args, ErrMissingTranslator)
	}
	msg, err := t.Translate(string(locale), key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(string(locale), key, args, err)
	}
	return msg
}
