package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/model"
)

// Default form action paths used when RenderOptions.Actions leaves them empty.
const (
	DefaultSolveAction    = "/solve"
	DefaultModeAction     = "/mode"
	DefaultLanguageAction = "/language"
	DefaultInfoAction     = "/info"
	DefaultInfoHideAction = "/info/hide"
	DefaultImageAction    = "/result.png"
	DefaultSessionAction  = "/api/session"
	DefaultSyncAction     = "/sync"
)

// DefaultRefreshSeconds is how often the page polls the session while a
// solve runs.
const DefaultRefreshSeconds = 2

// Actions are the URLs the page posts to.
type Actions struct {
	Solve    string
	Mode     string
	Language string
	Info     string
	InfoHide string
	Image    string
	// Session is polled for the result status while loading.
	Session string
	// Sync receives the form when a solve finishes, so edits made while
	// loading are stored before the page reloads.
	Sync string
}

func (a Actions) withDefaults() Actions {
	if a.Solve == "" {
		a.Solve = DefaultSolveAction
	}
	if a.Mode == "" {
		a.Mode = DefaultModeAction
	}
	if a.Language == "" {
		a.Language = DefaultLanguageAction
	}
	if a.Info == "" {
		a.Info = DefaultInfoAction
	}
	if a.InfoHide == "" {
		a.InfoHide = DefaultInfoHideAction
	}
	if a.Image == "" {
		a.Image = DefaultImageAction
	}
	if a.Session == "" {
		a.Session = DefaultSessionAction
	}
	if a.Sync == "" {
		a.Sync = DefaultSyncAction
	}
	return a
}

// RenderOptions describe per-request data renderers use alongside the
// session snapshot.
type RenderOptions struct {
	// Form lists the solve request fields, usually taken from the endpoint
	// contract.
	Form model.FormModel
	// Translator resolves display strings for the snapshot locale. A nil
	// translator renders message keys.
	Translator i18n.Translator
	// OnMissing customises the text shown for missing translations.
	OnMissing i18n.MissingTranslationHandler
	// Theme carries the resolved theme tokens, CSS variables and asset URLs.
	Theme *theme.RendererConfig
	// InfoHTML replaces the translated info text. It must already be
	// sanitised (see Sanitizer).
	InfoHTML string
	// Actions overrides the form action URLs.
	Actions Actions
	// Hidden adds hidden inputs (for example a CSRF token) to every form.
	Hidden map[string]string
	// RefreshSeconds overrides the poll interval while loading.
	RefreshSeconds int
	// ImagePath is where the result graph was written, for renderers that
	// cannot show it inline.
	ImagePath string
}
