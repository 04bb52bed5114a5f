package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/strob0t/ruffls/internal/check"
	"github.com/strob0t/ruffls/internal/dispatch"
	"github.com/strob0t/ruffls/internal/state"
)

// Linter is the port run-diagnostics invokes to turn a document's current
// text into Checks, normally a *lintcache.Cache in front of a
// lintengine.Engine.
type Linter interface {
	Lint(ctx context.Context, uri, source string) ([]check.Check, error)
}

// newPublishDiagnosticsTask builds the server task that re-lints uri's
// current buffer contents, stores the resulting checks, and produces the
// textDocument/publishDiagnostics notification body.
func newPublishDiagnosticsTask(linter Linter, uri string) dispatch.ServerTask {
	return dispatch.NewNotificationTask(
		"textDocument/publishDiagnostics",
		func(*state.ServerState) state.LockPlan {
			return state.LockPlan{OpenBuffers: state.Read, Checks: state.Write}
		},
		func(ctx context.Context, h *state.Handles) (any, error) {
			buf, ok := h.OpenBuffers()[uri]
			if !ok {
				// The document closed before this task ran; nothing to report.
				return nil, nil
			}
			source := buf.String()

			checks, err := linter.Lint(ctx, pathFromURI(uri), source)
			if err != nil {
				return nil, fmt.Errorf("handler: lint %s: %w", uri, err)
			}

			h.Checks().Replace(uri, checks)

			diags := make([]check.Diagnostic, 0, len(checks))
			for _, c := range checks {
				diags = append(diags, c.ToDiagnostic())
			}
			return PublishDiagnosticsParams{URI: uri, Diagnostics: diags}, nil
		},
	)
}

func pathFromURI(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
