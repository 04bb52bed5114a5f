package handler

import (
	"context"
	"encoding/json"

	"github.com/strob0t/ruffls/internal/buffer"
	"github.com/strob0t/ruffls/internal/dispatch"
	"github.com/strob0t/ruffls/internal/jsonrpc"
	"github.com/strob0t/ruffls/internal/state"
)

// notificationShaper builds the common notification ShapeResponse: nil on
// success, a null-id error Envelope on failure.
func notificationShaper(code int) func(jsonrpc.ID, any, error) *jsonrpc.Envelope {
	return func(_ jsonrpc.ID, _ any, err error) *jsonrpc.Envelope {
		if err == nil {
			return nil
		}
		return jsonrpc.NewError(jsonrpc.NullID, code, err.Error(), nil)
	}
}

// Initialized handles the `initialized` notification: acknowledged and
// logged by the caller at debug level, otherwise a no-op.
var Initialized = &dispatch.Handler{
	Decode: func(json.RawMessage) (any, *jsonrpc.Error) { return nil, nil },
	PlanLocks: func(*state.ServerState) state.LockPlan {
		return state.LockPlan{}
	},
	Body: func(context.Context, *state.Handles, chan<- dispatch.ServerTask, any) (any, error) {
		return nil, nil
	},
	ShapeResponse: notificationShaper(jsonrpc.CodeInternalError),
}

// NewDidOpen builds the textDocument/didOpen handler. It writes open_buffers
// and enqueues a run-diagnostics server task for the opened URI.
func NewDidOpen(linter Linter) *dispatch.Handler {
	return &dispatch.Handler{
		Decode: func(raw json.RawMessage) (any, *jsonrpc.Error) {
			var p DidOpenParams
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
			}
			return p, nil
		},
		PlanLocks: func(*state.ServerState) state.LockPlan {
			return state.LockPlan{OpenBuffers: state.Write}
		},
		Body: func(_ context.Context, h *state.Handles, tasks chan<- dispatch.ServerTask, input any) (any, error) {
			p := input.(DidOpenParams)
			h.OpenBuffers()[p.TextDocument.URI] = buffer.FromString(p.TextDocument.Text)
			tasks <- newPublishDiagnosticsTask(linter, p.TextDocument.URI)
			return nil, nil
		},
		ShapeResponse: notificationShaper(jsonrpc.CodeInternalError),
	}
}

// NewDidChange builds the textDocument/didChange handler. It applies each
// content change (delete then insert) to the document's buffer and
// re-enqueues diagnostics.
func NewDidChange(linter Linter) *dispatch.Handler {
	return &dispatch.Handler{
		Decode: func(raw json.RawMessage) (any, *jsonrpc.Error) {
			var p DidChangeParams
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
			}
			return p, nil
		},
		PlanLocks: func(*state.ServerState) state.LockPlan {
			return state.LockPlan{OpenBuffers: state.Write}
		},
		Body: func(_ context.Context, h *state.Handles, tasks chan<- dispatch.ServerTask, input any) (any, error) {
			p := input.(DidChangeParams)
			uri := p.TextDocument.URI

			buf, ok := h.OpenBuffers()[uri]
			if !ok {
				return nil, &ErrEditUnopenedDocument{URI: uri}
			}

			for _, change := range p.ContentChanges {
				if change.Range == nil {
					return nil, ErrUnexpectedNone
				}
				r := *change.Range
				if err := buf.DeleteRange(r.Start.Line, r.Start.Character, r.End.Line, r.End.Character); err != nil {
					return nil, err
				}
				if err := buf.InsertText(change.Text, r.Start.Line, r.Start.Character); err != nil {
					return nil, err
				}
			}

			tasks <- newPublishDiagnosticsTask(linter, uri)
			return nil, nil
		},
		ShapeResponse: notificationShaper(jsonrpc.CodeInternalError),
	}
}

// NewDidClose builds the textDocument/didClose handler. Per the resolved
// Open Question on close semantics, it purges both open_buffers and checks
// for the URI.
func NewDidClose() *dispatch.Handler {
	return &dispatch.Handler{
		Decode: func(raw json.RawMessage) (any, *jsonrpc.Error) {
			var p DidCloseParams
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
			}
			return p, nil
		},
		PlanLocks: func(*state.ServerState) state.LockPlan {
			return state.LockPlan{OpenBuffers: state.Write, Checks: state.Write}
		},
		Body: func(_ context.Context, h *state.Handles, _ chan<- dispatch.ServerTask, input any) (any, error) {
			p := input.(DidCloseParams)
			delete(h.OpenBuffers(), p.TextDocument.URI)
			h.Checks().Delete(p.TextDocument.URI)
			return nil, nil
		},
		ShapeResponse: notificationShaper(jsonrpc.CodeInternalError),
	}
}
