package i18n

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Catalog is an immutable locale -> key -> message table.
type Catalog struct {
	messages map[Locale]map[string]string
}

var _ Translator = (*Catalog)(nil)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog decoded from the embedded locale files. It is
// loaded on first use and shared afterwards.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = loadEmbedded()
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics when the embedded catalog cannot be decoded.
func MustDefault() *Catalog {
	catalog, err := Default()
	if err != nil {
		panic(err)
	}
	return catalog
}

func loadEmbedded() (*Catalog, error) {
	raw := make(map[Locale][]byte, len(Locales()))
	for _, locale := range Locales() {
		data, err := embeddedLocales.ReadFile("locales/" + string(locale) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s catalog: %w", locale, err)
		}
		raw[locale] = data
	}
	return NewCatalog(raw)
}

// NewCatalog decodes one flat YAML mapping per locale. Every locale must
// define the same key set so a toggle never drops a label.
func NewCatalog(sources map[Locale][]byte) (*Catalog, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("i18n: no locale sources")
	}

	messages := make(map[Locale]map[string]string, len(sources))
	for locale, data := range sources {
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: decode %s catalog: %w", locale, err)
		}
		messages[locale] = table
	}

	catalog := &Catalog{messages: messages}
	if err := catalog.checkParity(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (c *Catalog) checkParity() error {
	var reference Locale
	for locale := range c.messages {
		if reference == "" || locale < reference {
			reference = locale
		}
	}
	want := c.messages[reference]
	for locale, table := range c.messages {
		if locale == reference {
			continue
		}
		for key := range want {
			if _, ok := table[key]; !ok {
				return fmt.Errorf("i18n: %s catalog is missing key %q", locale, key)
			}
		}
		for key := range table {
			if _, ok := want[key]; !ok {
				return fmt.Errorf("i18n: %s catalog is missing key %q", reference, key)
			}
		}
	}
	return nil
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslator
	}
	table, ok := c.messages[Locale(locale)]
	if !ok {
		return "", fmt.Errorf("%w: locale %q", ErrMissingKey, locale)
	}
	msg, ok := table[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingKey, locale, key)
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg, nil
}

// Keys returns the sorted message keys of locale.
func (c *Catalog) Keys(locale Locale) []string {
	if c == nil {
		return nil
	}
	table := c.messages[locale]
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Messages returns a copy of the table for locale, ready to hand to a
// template as a plain map.
func (c *Catalog) Messages(locale Locale) map[string]string {
	if c == nil {
		return nil
	}
	table := c.messages[locale]
	out := make(map[string]string, len(table))
	for key, value := range table {
		out[key] = value
	}
	return out
}
