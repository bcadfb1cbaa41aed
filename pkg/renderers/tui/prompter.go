package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/model"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
)

// Prompter fills a session interactively: input mode, the payload fields of
// that mode, then the timeout.
type Prompter struct {
	cfg config
}

// NewPrompter builds a prompter. Without WithPromptDriver it talks to the
// terminal through survey.
func NewPrompter(options ...Option) *Prompter {
	cfg := newConfig(options)
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(nil)
	}
	return &Prompter{cfg: cfg}
}

// Collect prompts for every field of form and stores the answers in s.
func (p *Prompter) Collect(ctx context.Context, s *session.Session, form model.FormModel) error {
	locale := s.Locale()
	tr := func(key string, args ...any) string {
		return i18n.T(p.cfg.translator, locale, key, args...)
	}
	snap := s.Snapshot()

	modes := []solver.InputType{solver.InputFile, solver.InputText}
	current := 0
	if snap.Form.InputType == solver.InputText {
		current = 1
	}
	idx, err := p.cfg.driver.Select(ctx, SelectConfig{
		Message:      tr("title"),
		Options:      []string{tr("uploadFile"), tr("writeModel")},
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(modes) {
		return ErrNoSelection
	}
	mode := modes[idx]
	if err := s.SetInputType(mode); err != nil {
		return err
	}

	for _, field := range form.FieldsFor(model.InputMode(mode)) {
		label := tr(field.LabelKey)
		switch field.Type {
		case model.FieldTypeFile:
			file, err := p.promptFile(ctx, label, field, currentFile(snap, field.Name), tr)
			if err != nil {
				return err
			}
			if file != nil {
				setFile(s, field.Name, file)
			}
		default:
			text, err := p.cfg.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: currentText(snap, field.Name),
				Help:    tr(field.PlaceholderKey),
			})
			if err != nil {
				return err
			}
			setText(s, field.Name, text)
		}
	}

	timeoutLabel := tr("timeout")
	if field, ok := form.Field(solver.FieldTimeout); ok && field.LabelKey != "" {
		timeoutLabel = tr(field.LabelKey)
	}
	raw, err := p.cfg.driver.Input(ctx, InputConfig{
		Message: timeoutLabel,
		Default: strconv.Itoa(snap.Form.TimeoutSeconds),
	})
	if err != nil {
		return err
	}
	s.SetTimeout(raw)
	return nil
}

// promptFile reads a path and loads the file. An empty answer keeps the
// current selection and returns nil.
func (p *Prompter) promptFile(ctx context.Context, label string, field model.Field, current string, tr func(string, ...any) string) (*solver.File, error) {
	var help string
	if current != "" {
		help = tr("currentFile", current)
	}

	var loaded *solver.File
	answer, err := p.cfg.driver.Input(ctx, InputConfig{
		Message: label,
		Help:    help,
		Validator: func(answer string) error {
			file, err := p.loadFile(answer, field.Accept)
			if err != nil {
				return err
			}
			loaded = file
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	path := strings.TrimSpace(answer)
	if path == "" {
		return nil, nil
	}
	if loaded != nil && loaded.Name == filepath.Base(path) {
		return loaded, nil
	}
	return p.loadFile(path, field.Accept)
}

func (p *Prompter) loadFile(answer, accept string) (*solver.File, error) {
	path := strings.TrimSpace(answer)
	if path == "" {
		return nil, nil
	}
	if accept != "" && !strings.EqualFold(filepath.Ext(path), accept) {
		return nil, fmt.Errorf("tui: expected a %s file, got %q", accept, path)
	}
	data, err := p.cfg.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("tui: read %s: %w", path, err)
	}
	return &solver.File{Name: filepath.Base(path), Data: data}, nil
}

func currentFile(snap session.Snapshot, name string) string {
	switch name {
	case solver.FieldMinizincFile:
		return snap.MinizincFile
	case solver.FieldDatazincFile:
		return snap.DatazincFile
	}
	return ""
}

func currentText(snap session.Snapshot, name string) string {
	switch name {
	case solver.FieldMinizincText:
		return snap.Form.MinizincText
	case solver.FieldDatazincText:
		return snap.Form.DatazincText
	}
	return ""
}

func setFile(s *session.Session, name string, file *solver.File) {
	switch name {
	case solver.FieldMinizincFile:
		s.SetMinizincFile(file)
	case solver.FieldDatazincFile:
		s.SetDatazincFile(file)
	}
}

func setText(s *session.Session, name, text string) {
	switch name {
	case solver.FieldMinizincText:
		s.SetMinizincText(text)
	case solver.FieldDatazincText:
		s.SetDatazincText(text)
	}
}
