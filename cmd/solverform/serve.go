package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-solverform/internal/server"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/theming"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solver form over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	themeConfig, err := theming.NewCatalog().Resolve(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	infoHTML, err := cfg.InfoHTML()
	if err != nil {
		return err
	}
	if infoHTML != "" {
		infoHTML = render.NewSanitizer().Sanitize(infoHTML)
	}

	renderer, err := a.renderers.Lookup(formatHTML)
	if err != nil {
		return err
	}
	store := session.NewStore(cfg.Server.SessionTTL, func(id string) *session.Session {
		return a.newSession(cfg, logger, id)
	})

	// Solves run under their own context so a shutdown lets them finish
	// until the grace period ends.
	solveCtx, cancelSolves := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelSolves()

	srv, err := server.New(a.client,
		server.WithStore(store),
		server.WithRenderer(renderer),
		server.WithRenderOptions(render.RenderOptions{
			Form:       a.contract.Form,
			Translator: a.translator,
			Theme:      themeConfig,
			InfoHTML:   infoHTML,
		}),
		server.WithLogger(logger),
		server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		server.WithSecureCookies(cfg.Server.SecureCookies),
		server.WithBaseContext(solveCtx),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("solver", a.client.Endpoint()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
		if err := srv.Wait(shutdownCtx); err != nil {
			logger.Warn("abandoning in-flight solves", zap.Error(err))
			cancelSolves()
		}
		return nil
	})
	return g.Wait()
}
