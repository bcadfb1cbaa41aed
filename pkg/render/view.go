package render

import (
	"strconv"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/model"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
	"github.com/goliatone/go-solverform/pkg/theming"
)

// Field kinds rendered by the page.
const (
	KindFile     = "file"
	KindTextarea = "textarea"
	KindNumber   = "number"
)

// View is the localised, renderer-neutral page model.
type View struct {
	SessionID string
	Lang      string

	Title          string
	ChangeLanguage string
	InfoLabel      string
	ShowInfo       bool
	InfoText       string
	InfoHTML       string

	Mode        string
	ModeButtons []ModeButton
	Fields      []FieldView
	Hidden      []HiddenField
	FormHidden  []HiddenField

	SubmitLabel    string
	SubmitDisabled bool
	Loading        bool
	LoadingText    string
	RefreshSeconds int

	Result ResultView
	Image  ImageView

	Actions Actions
	Theme   ThemeView
}

// ModeButton is one input-mode toggle button.
type ModeButton struct {
	Value  string
	Label  string
	Active bool
}

// FieldView is one visible form control.
type FieldView struct {
	Name        string
	Kind        string
	Label       string
	Placeholder string
	Accept      string
	Rows        int
	Min         int
	Required    bool
	Value       string
	CurrentFile string
}

// ResultView is the result section. Show is false while the output is empty.
type ResultView struct {
	Show    bool
	Title   string
	Text    string
	IsError bool
}

// ImageView is the graph section.
type ImageView struct {
	Show  bool
	Title string
	Src   string
	Href  string
}

// ThemeView exposes the resolved theme to templates.
type ThemeView struct {
	Name         string
	Variant      string
	CSSVarsStyle string
	Stylesheet   string
}

// BuildView localises snap for the snapshot's locale.
func BuildView(snap session.Snapshot, opts RenderOptions) View {
	locale := snap.Locale
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	tr := func(key string, args ...any) string {
		return i18n.TWith(opts.Translator, locale, key, opts.OnMissing, args...)
	}

	mode := string(snap.Form.InputType)
	if mode == "" {
		mode = string(solver.InputFile)
	}

	view := View{
		SessionID:      snap.ID,
		Lang:           locale.String(),
		Title:          tr("title"),
		ChangeLanguage: tr("changeLanguage"),
		InfoLabel:      tr("info"),
		ShowInfo:       snap.ShowInfo,
		InfoText:       tr("infoText"),
		InfoHTML:       opts.InfoHTML,
		Mode:           mode,
		ModeButtons: []ModeButton{
			{Value: string(solver.InputFile), Label: tr("uploadFile"), Active: mode == string(solver.InputFile)},
			{Value: string(solver.InputText), Label: tr("writeModel"), Active: mode == string(solver.InputText)},
		},
		SubmitLabel:    tr("solve"),
		SubmitDisabled: snap.SubmitDisabled,
		Loading:        snap.Result.Status == session.StatusLoading,
		Actions:        opts.Actions.withDefaults(),
		Hidden:         SortedHiddenFields(MergeHiddenFields(opts.Hidden)),
		FormHidden:     SortedHiddenFields(MergeHiddenFields(opts.Hidden, Hidden(solver.FieldInputType, mode))),
	}

	if view.Loading {
		view.SubmitLabel = tr("processing")
		view.LoadingText = tr("findingSolutions")
		view.RefreshSeconds = opts.RefreshSeconds
		if view.RefreshSeconds <= 0 {
			view.RefreshSeconds = DefaultRefreshSeconds
		}
	}

	view.Fields = buildFields(snap, opts.Form, model.InputMode(mode), tr)

	if snap.Result.OutputText != "" {
		view.Result = ResultView{
			Show:    true,
			Title:   tr("result"),
			Text:    snap.Result.OutputText,
			IsError: snap.Result.Status == session.StatusError,
		}
	}
	if snap.Result.HasImage() {
		view.Image = ImageView{
			Show:  true,
			Title: tr("paretoFront"),
			Src:   snap.Result.ImageDataURI(),
			Href:  view.Actions.Image,
		}
	}

	if cfg := opts.Theme; cfg != nil {
		view.Theme = ThemeView{
			Name:         cfg.Theme,
			Variant:      cfg.Variant,
			CSSVarsStyle: theming.CSSVarsStyle(cfg.CSSVars),
		}
		if cfg.AssetURL != nil {
			view.Theme.Stylesheet = cfg.AssetURL(theming.StylesheetAsset)
		}
	}
	return view
}

func buildFields(snap session.Snapshot, form model.FormModel, mode model.InputMode, tr func(string, ...any) string) []FieldView {
	fields := form.FieldsFor(mode)
	if timeout, ok := form.Field(solver.FieldTimeout); ok {
		fields = append(fields, timeout)
	}

	out := make([]FieldView, 0, len(fields))
	for _, field := range fields {
		view := FieldView{
			Name:     field.Name,
			Label:    tr(field.LabelKey),
			Accept:   field.Accept,
			Rows:     field.Rows,
			Required: field.Required,
		}
		if field.PlaceholderKey != "" {
			view.Placeholder = tr(field.PlaceholderKey)
		}
		if view.Label == "" {
			view.Label = field.Name
		}

		switch field.Type {
		case model.FieldTypeFile:
			view.Kind = KindFile
			if name := currentFileName(snap, field.Name); name != "" {
				view.CurrentFile = tr("currentFile", name)
			}
		case model.FieldTypeInteger:
			view.Kind = KindNumber
			view.Min = session.MinTimeoutSeconds
			if field.Minimum != nil {
				view.Min = *field.Minimum
			}
			view.Value = strconv.Itoa(snap.Form.TimeoutSeconds)
		default:
			view.Kind = KindTextarea
			view.Value = textValue(snap, field.Name)
		}
		out = append(out, view)
	}
	return out
}

func currentFileName(snap session.Snapshot, name string) string {
	switch name {
	case solver.FieldMinizincFile:
		return snap.MinizincFile
	case solver.FieldDatazincFile:
		return snap.DatazincFile
	}
	return ""
}

func textValue(snap session.Snapshot, name string) string {
	switch name {
	case solver.FieldMinizincText:
		return snap.Form.MinizincText
	case solver.FieldDatazincText:
		return snap.Form.DatazincText
	}
	return ""
}
