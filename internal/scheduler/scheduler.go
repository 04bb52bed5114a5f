// Package scheduler is the central orchestrator: it owns the framed
// transport connection, performs the pre-loop initialize handshake, and
// then runs the reader/dispatcher/writer goroutines that multiplex inbound
// client messages and server-initiated tasks onto per-task goroutines under
// a bounded concurrency and a fixed ServerState lock-acquisition order.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/willibrandon/mtlog/core"

	"github.com/strob0t/ruffls/internal/dispatch"
	"github.com/strob0t/ruffls/internal/jsonrpc"
	"github.com/strob0t/ruffls/internal/state"
	"github.com/strob0t/ruffls/internal/telemetry"
	"github.com/strob0t/ruffls/internal/transport"
)

// taskChanCapacity and responseChanCapacity bound the inbound task channel
// and the outbound response channel at 1024, per the backpressure policy: a
// full channel naturally pauses the reader rather than growing unbounded.
const (
	taskChanCapacity     = 1024
	responseChanCapacity = 1024
)

// Scheduler multiplexes one framed connection's traffic through the
// handler registry. A Scheduler is single-use: Run drives exactly one
// connection's initialize handshake and main loop, returning when the
// connection closes or a fatal transport error occurs.
type Scheduler struct {
	registry      *dispatch.Registry
	lintArgs      []string
	log           core.Logger
	metrics       *telemetry.Metrics
	maxConcurrent int64

	state *state.ServerState
}

// New builds a Scheduler. maxConcurrent bounds the number of handler bodies
// running at once (the semaphore named in the concurrency model); callers
// typically pass GOMAXPROCS*4.
func New(registry *dispatch.Registry, lintArgs []string, log core.Logger, metrics *telemetry.Metrics, maxConcurrent int64) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Scheduler{
		registry:      registry,
		lintArgs:      lintArgs,
		log:           log,
		metrics:       metrics,
		maxConcurrent: maxConcurrent,
	}
}

// Run performs the initialize handshake over conn, then drives the main
// loop until the connection closes or ctx is cancelled. A clean client EOF
// after handshake is reported as a nil error; unrecoverable I/O failures on
// either direction are returned.
func (s *Scheduler) Run(ctx context.Context, conn *transport.Conn) error {
	reader := transport.NewReader(conn)
	writer := transport.NewWriter(conn)

	st, err := s.handshake(ctx, reader, writer)
	if err != nil {
		return err
	}
	s.state = st

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	clientCh := make(chan *jsonrpc.Envelope, taskChanCapacity)
	serverTaskCh := make(chan dispatch.ServerTask, taskChanCapacity)
	respCh := make(chan *jsonrpc.Envelope, responseChanCapacity)
	sem := semaphore.NewWeighted(s.maxConcurrent)
	cancels := newCancelTable()

	g.Go(func() error {
		defer close(clientCh)
		return s.readLoop(runCtx, reader, respCh, clientCh, cancel)
	})
	g.Go(func() error {
		return s.dispatchLoop(runCtx, sem, cancels, clientCh, serverTaskCh, respCh)
	})
	g.Go(func() error {
		defer cancel()
		return s.writeLoop(runCtx, writer, respCh)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

// idOf extracts env's request id, or NullID for a notification / malformed
// envelope with no id.
func idOf(env *jsonrpc.Envelope) jsonrpc.ID {
	if env.ID == nil {
		return jsonrpc.NullID
	}
	return *env.ID
}

// cancelIDFromParam converts the decoded, untyped CancelParams.ID (a string
// or float64 after JSON decoding into `any`) into a jsonrpc.ID.
func cancelIDFromParam(v any) (jsonrpc.ID, bool) {
	switch t := v.(type) {
	case string:
		return jsonrpc.NewStringID(t), true
	case float64:
		return jsonrpc.NewNumberID(int64(t)), true
	default:
		return jsonrpc.ID{}, false
	}
}
