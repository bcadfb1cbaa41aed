// Package solverform exposes the common entry points of the module so simple
// callers do not need to import the sub-packages directly.
package solverform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-solverform/pkg/contract"
	"github.com/goliatone/go-solverform/pkg/renderers/vanilla"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
)

// Submission aliases solver.Submission.
type Submission = solver.Submission

// Response aliases solver.Response.
type Response = solver.Response

// Result aliases session.Result.
type Result = session.Result

// NewClient builds a solver client bound to the embedded contract.
func NewClient(ctx context.Context, endpoint string, options ...solver.Option) (*solver.Client, error) {
	ct, err := contract.Load(ctx)
	if err != nil {
		return nil, err
	}
	return solver.NewClient(endpoint, append([]solver.Option{solver.WithContract(ct)}, options...)...)
}

// Solve submits sub to endpoint through a fresh session and returns the
// resolved result. Failures reported by the solver come back as a Result with
// status error, not as an error.
func Solve(ctx context.Context, endpoint string, sub Submission, options ...solver.Option) (Result, error) {
	client, err := NewClient(ctx, endpoint, options...)
	if err != nil {
		return Result{}, err
	}
	sess := session.New(session.WithInputType(sub.InputType))
	if err := sess.SetInputType(sub.InputType); err != nil {
		return Result{}, err
	}
	sess.SetMinizincFile(sub.MinizincFile)
	sess.SetDatazincFile(sub.DatazincFile)
	sess.SetMinizincText(sub.MinizincText)
	sess.SetDatazincText(sub.DatazincText)
	if sub.Timeout > 0 {
		sess.SetTimeoutSeconds(sub.Timeout)
	}
	return sess.Submit(ctx, client)
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the built-in stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(solverform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
