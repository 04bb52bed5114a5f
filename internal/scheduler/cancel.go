package scheduler

import (
	"context"
	"sync"

	"github.com/strob0t/ruffls/internal/jsonrpc"
)

// cancelTable is the scheduler-owned user_tasks map: every in-flight
// request's cancel func, keyed by request id, so $/cancelRequest can reach
// it without routing through the handler registry.
type cancelTable struct {
	mu    sync.Mutex
	funcs map[jsonrpc.ID]context.CancelFunc
}

func newCancelTable() *cancelTable {
	return &cancelTable{funcs: make(map[jsonrpc.ID]context.CancelFunc)}
}

func (t *cancelTable) record(id jsonrpc.ID, cancel context.CancelFunc) {
	t.mu.Lock()
	t.funcs[id] = cancel
	t.mu.Unlock()
}

func (t *cancelTable) remove(id jsonrpc.ID) {
	t.mu.Lock()
	delete(t.funcs, id)
	t.mu.Unlock()
}

// cancel cancels the recorded task for id, reporting whether one was found.
func (t *cancelTable) cancel(id jsonrpc.ID) bool {
	t.mu.Lock()
	cancel, ok := t.funcs[id]
	t.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}
