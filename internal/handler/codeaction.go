package handler

import (
	"context"
	"encoding/json"

	"github.com/strob0t/ruffls/internal/check"
	"github.com/strob0t/ruffls/internal/dispatch"
	"github.com/strob0t/ruffls/internal/jsonrpc"
	"github.com/strob0t/ruffls/internal/state"
)

// NewCodeAction builds the textDocument/codeAction handler. It returns nil
// (not an empty slice) for a URI with no recorded diagnostic run, per E4.
func NewCodeAction() *dispatch.Handler {
	return &dispatch.Handler{
		Decode: func(raw json.RawMessage) (any, *jsonrpc.Error) {
			var p CodeActionParams
			if err := json.Unmarshal(raw, &p); err != nil {
				return nil, &jsonrpc.Error{Code: jsonrpc.CodeInvalidParams, Message: err.Error()}
			}
			return p, nil
		},
		PlanLocks: func(*state.ServerState) state.LockPlan {
			return state.LockPlan{Checks: state.Read}
		},
		Body: func(_ context.Context, h *state.Handles, _ chan<- dispatch.ServerTask, input any) (any, error) {
			p := input.(CodeActionParams)

			doc := h.Checks().Get(p.TextDocument.URI)
			if doc == nil {
				return nil, nil
			}

			matches := doc.Intersecting(p.Range)
			actions := make([]check.CodeAction, 0, len(matches))
			for _, c := range matches {
				if c.Fix == nil {
					continue
				}
				actions = append(actions, c.ToCodeAction())
			}
			return actions, nil
		},
		ShapeResponse: func(id jsonrpc.ID, result any, err error) *jsonrpc.Envelope {
			if err != nil {
				return jsonrpc.NewError(id, jsonrpc.CodeInternalError, err.Error(), nil)
			}
			env, marshalErr := jsonrpc.NewResult(id, result)
			if marshalErr != nil {
				return jsonrpc.NewError(id, jsonrpc.CodeInternalError, marshalErr.Error(), nil)
			}
			return env
		},
	}
}
