package handler

import (
	"encoding/json"

	"github.com/strob0t/ruffls/internal/dispatch"
)

// NewRegistry builds the dispatch.Registry of every handler this daemon
// exposes, save initialize (handled pre-loop by HandleInitialize) and
// $/cancelRequest (handled directly by the scheduler, since it needs access
// to the scheduler-owned table of in-flight request cancel funcs rather
// than any ServerState field).
func NewRegistry(linter Linter) *dispatch.Registry {
	r := dispatch.NewRegistry()

	r.RegisterNotification("initialized", Initialized)
	r.RegisterNotification("textDocument/didOpen", NewDidOpen(linter))
	r.RegisterNotification("textDocument/didChange", NewDidChange(linter))
	r.RegisterNotification("textDocument/didClose", NewDidClose())
	r.RegisterRequest("textDocument/codeAction", NewCodeAction())

	return r
}

// DecodeCancelParams decodes $/cancelRequest's params into the request id it
// names, as either a string or a number per the LSP CancelParams shape.
func DecodeCancelParams(raw json.RawMessage) (CancelParams, error) {
	var p CancelParams
	if len(raw) == 0 {
		return p, nil
	}
	err := json.Unmarshal(raw, &p)
	return p, err
}
