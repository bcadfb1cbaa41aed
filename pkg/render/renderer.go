package render

import (
	"context"

	"github.com/goliatone/go-solverform/pkg/session"
)

// Renderer converts a session snapshot into a byte representation (HTML,
// terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snapshot session.Snapshot, options RenderOptions) ([]byte, error)
}
