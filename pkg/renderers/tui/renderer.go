package tui

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/session"
)

// Renderer prints the result section of a snapshot as plain text.
type Renderer struct {
	cfg config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the text renderer.
func New(options ...Option) *Renderer {
	return &Renderer{cfg: newConfig(options)}
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the result title and output, followed by the graph title and
// the saved image path when the result carries an image.
func (r *Renderer) Render(_ context.Context, snapshot session.Snapshot, options render.RenderOptions) ([]byte, error) {
	if options.Translator == nil {
		options.Translator = r.cfg.translator
	}
	view := render.BuildView(snapshot, options)

	var buf bytes.Buffer
	switch {
	case view.Loading:
		fmt.Fprintf(&buf, "%s%s\n", r.cfg.theme.InfoPrefix, view.LoadingText)
	case view.Result.Show:
		prefix := r.cfg.theme.InfoPrefix
		if view.Result.IsError {
			prefix = r.cfg.theme.ErrorPrefix
		}
		fmt.Fprintf(&buf, "%s%s\n%s\n", prefix, view.Result.Title, view.Result.Text)
	}

	if view.Image.Show {
		fmt.Fprintf(&buf, "%s%s\n", r.cfg.theme.InfoPrefix, view.Image.Title)
		path := options.ImagePath
		if path == "" {
			path = r.cfg.imagePath
		}
		if path != "" {
			fmt.Fprintln(&buf, i18n.T(options.Translator, snapshot.Locale, "imageSaved", path))
		}
	}
	return buf.Bytes(), nil
}
