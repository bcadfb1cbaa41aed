package i18n

import (
	"fmt"
	"strings"
)

// Locale identifies one of the two supported display languages.
type Locale string

const (
	Italian Locale = "it"
	English Locale = "en"
)

// DefaultLocale is the language a new session starts with.
const DefaultLocale = Italian

// Locales lists the supported locales in toggle order.
func Locales() []Locale {
	return []Locale{Italian, English}
}

// ParseLocale normalises raw input ("EN", " it ", "en-US") into a Locale.
func ParseLocale(raw string) (Locale, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(value, "-_"); idx > 0 {
		value = value[:idx]
	}
	switch Locale(value) {
	case Italian, English:
		return Locale(value), nil
	default:
		return "", fmt.Errorf("i18n: unsupported locale %q", raw)
	}
}

// Toggle returns the other supported locale.
func (l Locale) Toggle() Locale {
	if l == English {
		return Italian
	}
	return English
}

func (l Locale) String() string {
	return string(l)
}
