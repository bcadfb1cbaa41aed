package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-solverform/pkg/session"
)

// ErrRendererNotFound is returned when no renderer answers to a format name.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Output is one rendered snapshot.
type Output struct {
	Format      string
	ContentType string
	Body        []byte
}

// Registry maps output format names ("vanilla", "tui") to renderers. The
// first renderer registered is the default format.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry registers renderers in order.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer)}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func formatName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name. Names are case-insensitive and must
// be unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := formatName(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: format %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// Lookup returns the renderer for format. An empty format selects the
// default.
func (r *Registry) Lookup(format string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := formatName(format)
	if name == "" {
		name = r.fallback
	}
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrRendererNotFound, format, strings.Join(r.namesLocked(), ", "))
	}
	return renderer, nil
}

// Render renders snapshot in format.
func (r *Registry) Render(ctx context.Context, format string, snapshot session.Snapshot, options RenderOptions) (Output, error) {
	renderer, err := r.Lookup(format)
	if err != nil {
		return Output{}, err
	}
	body, err := renderer.Render(ctx, snapshot, options)
	if err != nil {
		return Output{}, fmt.Errorf("render: %s: %w", renderer.Name(), err)
	}
	return Output{Format: renderer.Name(), ContentType: renderer.ContentType(), Body: body}, nil
}

// Names returns the registered formats, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
