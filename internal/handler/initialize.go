package handler

import (
	"encoding/json"
	"fmt"

	"github.com/strob0t/ruffls/internal/state"
)

// HandleInitialize decodes InitializeParams and builds the ServerState and
// InitializeResult the scheduler needs before it can enter its main loop.
// It runs synchronously, before any handler dispatch, per the scheduler's
// startup sequence: there is no ServerState to plan locks against yet.
func HandleInitialize(raw json.RawMessage, lintArgs []string) (*state.ServerState, InitializeResult, error) {
	var params InitializeParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, InitializeResult{}, fmt.Errorf("handler: decode InitializeParams: %w", err)
		}
	}

	s := state.New(params.ProjectRoot(), state.LintSettings{Args: lintArgs})
	return s, InitializeResult{Capabilities: state.DefaultCapabilities}, nil
}
