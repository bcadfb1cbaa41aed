// Package i18n holds the static string table used by every renderer. The
// catalog is decoded once from the embedded locales/*.yaml files and never
// mutated afterwards; callers select a table with the Locale enum and resolve
// messages through the Translator interface so template engines and the
// terminal renderer share the same lookup rules.
package i18n
