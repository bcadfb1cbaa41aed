package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/render"
	rendertemplate "github.com/goliatone/go-solverform/pkg/render/template"
	gotemplate "github.com/goliatone/go-solverform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/theming"
)

// FormID is the id of the solve form. Header buttons submit it so typed
// values survive language and info toggles.
const FormID = "solve-form"

const (
	pageTemplate = "page"

	defaultStylesheetURL = "/assets/" + StylesheetName
	defaultScriptURL     = "/assets/" + ScriptName
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheetURL    string
	scriptURL        string
	translator       i18n.Translator
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// page.tpl and the partials the page includes.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator sets the catalog behind the translate template helper.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithStylesheetURL sets the stylesheet linked when the theme has none.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		if url != "" {
			cfg.stylesheetURL = url
		}
	}
}

// WithScriptURL sets the poll script loaded while a solve runs.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		if url != "" {
			cfg.scriptURL = url
		}
	}
}

// Renderer produces the HTML page.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	stylesheetURL string
	scriptURL     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), stylesheetURL: defaultStylesheetURL, scriptURL: defaultScriptURL}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.translator == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: load catalog: %w", err)
		}
		cfg.translator = catalog
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithTemplateFunc(i18n.TemplateFuncs(cfg.translator, i18n.TemplateConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, stylesheetURL: cfg.stylesheetURL, scriptURL: cfg.scriptURL}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the page for snapshot.
func (r *Renderer) Render(_ context.Context, snapshot session.Snapshot, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	view := render.BuildView(snapshot, options)
	stylesheet := view.Theme.Stylesheet
	if stylesheet == "" {
		stylesheet = r.stylesheetURL
	}

	partials := theming.DefaultPartials()
	if options.Theme != nil {
		for key, value := range options.Theme.Partials {
			partials[key] = value
		}
	}

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"view":       view,
		"stylesheet": stylesheet,
		"script":     r.scriptURL,
		"form_id":    FormID,
		"locale":     view.Lang,
		"partials": map[string]string{
			"form":   partials["page.form"],
			"result": partials["page.result"],
			"info":   partials["page.info"],
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
