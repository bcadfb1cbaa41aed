package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-solverform/internal/config"
	"github.com/goliatone/go-solverform/pkg/contract"
	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/renderers/tui"
	"github.com/goliatone/go-solverform/pkg/renderers/vanilla"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
)

// Output formats registered by newApp.
const (
	formatHTML = "vanilla"
	formatText = "tui"
)

// app holds what both commands share.
type app struct {
	contract   *contract.Contract
	translator i18n.Translator
	client     *solver.Client
	renderers  *render.Registry
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	ct, err := contract.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contract: %w", err)
	}
	catalog, err := i18n.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	client, err := solver.NewClient(cfg.Solver.URL,
		solver.WithContract(ct),
		solver.WithLogger(logger),
		solver.WithRequestTimeout(cfg.Solver.RequestTimeout),
		solver.WithMaxResponseBytes(cfg.Solver.MaxResponseBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("solver client: %w", err)
	}
	logger.Debug("solver client ready", zap.String("endpoint", client.Endpoint()))

	page, err := vanilla.New(vanilla.WithTranslator(catalog))
	if err != nil {
		return nil, err
	}
	renderers, err := render.NewRegistry(page, tui.New(tui.WithTranslator(catalog)))
	if err != nil {
		return nil, err
	}
	return &app{contract: ct, translator: catalog, client: client, renderers: renderers}, nil
}

// newSession seeds a session from the configuration. An empty id lets the
// session keep its zero id, which is fine for one-shot CLI use.
func (a *app) newSession(cfg config.Config, logger *zap.Logger, id string) *session.Session {
	timeout := cfg.Form.TimeoutSeconds
	if timeout <= 0 {
		timeout = a.contract.TimeoutDefault
	}
	return session.New(
		session.WithID(id),
		session.WithLocale(cfg.Locale()),
		session.WithTranslator(a.translator),
		session.WithLogger(logger),
		session.WithInputType(solver.InputType(cfg.Form.InputType)),
		session.WithTimeoutBounds(a.contract.TimeoutMinimum, a.contract.ClampTimeout(timeout)),
	)
}
