package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/strob0t/ruffls/internal/dispatch"
	"github.com/strob0t/ruffls/internal/handler"
	"github.com/strob0t/ruffls/internal/jsonrpc"
	"github.com/strob0t/ruffls/internal/logger"
	"github.com/strob0t/ruffls/internal/state"
	"github.com/strob0t/ruffls/internal/transport"
)

// readLoop repeatedly reads one framed message, decodes and validates its
// envelope, and submits it to clientCh. Parse and framing failures are
// written directly to respCh with a null id, per the error-handling design;
// they never reach the task pipeline. A clean EOF triggers shutdown and
// returns nil; any other I/O failure is fatal and returned to the errgroup.
func (s *Scheduler) readLoop(ctx context.Context, reader *transport.Reader, respCh chan<- *jsonrpc.Envelope, clientCh chan<- *jsonrpc.Envelope, shutdown context.CancelFunc) error {
	for {
		body, err := reader.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				shutdown()
				return nil
			}
			var invalid *transport.ErrInvalidFrame
			var encoding *transport.ErrUnknownEncoding
			if errors.As(err, &invalid) || errors.As(err, &encoding) {
				s.sendResponse(ctx, respCh, jsonrpc.NewError(jsonrpc.NullID, jsonrpc.CodeInternalError, err.Error(), nil))
				continue
			}
			return fmt.Errorf("scheduler: read frame: %w", err)
		}

		var env jsonrpc.Envelope
		if unmarshalErr := json.Unmarshal(body, &env); unmarshalErr != nil {
			s.sendResponse(ctx, respCh, jsonrpc.NewError(jsonrpc.NullID, jsonrpc.CodeParseError, unmarshalErr.Error(), nil))
			continue
		}
		if env.JSONRPC != jsonrpc.Version {
			s.sendResponse(ctx, respCh, jsonrpc.NewError(idOf(&env), jsonrpc.CodeInvalidRequest, `jsonrpc version must be "2.0"`, nil))
			continue
		}

		select {
		case clientCh <- &env:
		case <-ctx.Done():
			return nil
		}
	}
}

// dispatchLoop pulls one task at a time from either clientCh or
// serverTaskCh, resolving and spawning its handler, and does not advance to
// the next task until that handler's ServerState leases are confirmed
// acquired. This ordering is what makes lock acquisition monotonic with
// message order (see state.Acquire).
func (s *Scheduler) dispatchLoop(ctx context.Context, sem *semaphore.Weighted, cancels *cancelTable, clientCh <-chan *jsonrpc.Envelope, serverTaskCh chan dispatch.ServerTask, respCh chan<- *jsonrpc.Envelope) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-clientCh:
			if !ok {
				return s.drainServerTasks(ctx, sem, serverTaskCh, respCh)
			}
			s.dispatchClientMessage(ctx, sem, cancels, env, serverTaskCh, respCh)
		case task := <-serverTaskCh:
			s.dispatchServerTask(ctx, sem, task, serverTaskCh, respCh)
		}
	}
}

// drainServerTasks runs any server-initiated tasks already queued at the
// moment the reader stopped, then returns. It makes no attempt to wait for
// tasks a still-running handler body might enqueue later; a clean shutdown
// races with in-flight bodies by design (see §7's best-effort drain policy).
func (s *Scheduler) drainServerTasks(ctx context.Context, sem *semaphore.Weighted, serverTaskCh chan dispatch.ServerTask, respCh chan<- *jsonrpc.Envelope) error {
	for {
		select {
		case task := <-serverTaskCh:
			s.dispatchServerTask(ctx, sem, task, serverTaskCh, respCh)
		default:
			return nil
		}
	}
}

func (s *Scheduler) dispatchClientMessage(ctx context.Context, sem *semaphore.Weighted, cancels *cancelTable, env *jsonrpc.Envelope, serverTaskCh chan dispatch.ServerTask, respCh chan<- *jsonrpc.Envelope) {
	if env.Method == "$/cancelRequest" {
		s.handleCancel(cancels, env)
		return
	}

	id := env.ID
	isRequest := id != nil

	var h *dispatch.Handler
	if isRequest {
		h = s.registry.Requests[env.Method]
	} else {
		h = s.registry.Notifications[env.Method]
	}
	if h == nil {
		if isRequest {
			s.sendResponse(ctx, respCh, jsonrpc.NewError(*id, jsonrpc.CodeMethodNotFound, fmt.Sprintf("method not found: %s", env.Method), nil))
		}
		return
	}

	input, decodeErr := h.Decode(env.Params)
	if decodeErr != nil {
		if isRequest {
			s.sendResponse(ctx, respCh, jsonrpc.NewError(*id, decodeErr.Code, decodeErr.Message, decodeErr.Data))
		}
		return
	}

	plan := h.PlanLocks(s.state)

	if err := sem.Acquire(ctx, 1); err != nil {
		return
	}

	ready := make(chan struct{})
	go func() {
		defer sem.Release(1)
		s.runHandler(ctx, h, plan, input, id, serverTaskCh, respCh, cancels, ready)
	}()
	<-ready
}

// runHandler acquires the planned ServerState leases, signals ready (so the
// dispatcher may advance), then runs the handler body and shapes its
// response. For requests, a context cancelled via $/cancelRequest is
// reported as RequestCancelled rather than whatever the handler's own
// ShapeResponse would have produced.
func (s *Scheduler) runHandler(parentCtx context.Context, h *dispatch.Handler, plan state.LockPlan, input any, id *jsonrpc.ID, serverTaskCh chan dispatch.ServerTask, respCh chan<- *jsonrpc.Envelope, cancels *cancelTable, ready chan struct{}) {
	handles := state.Acquire(s.state, plan)
	close(ready)

	ctx, cancel := context.WithCancel(parentCtx)
	if id != nil {
		cancels.record(*id, cancel)
	}

	reqID := uuid.NewString()
	if id != nil {
		reqID = id.String()
	}
	ctx = logger.WithRequestID(ctx, reqID)
	if s.metrics != nil {
		s.metrics.RequestsDispatched.Add(ctx, 1)
	}

	result, err := h.Body(ctx, handles, serverTaskCh, input)
	handles.Release()
	cancel()
	if id != nil {
		cancels.remove(*id)
	}

	if id == nil {
		if h.ShapeResponse != nil {
			if env := h.ShapeResponse(jsonrpc.NullID, result, err); env != nil {
				s.sendResponse(parentCtx, respCh, env)
			}
		} else if err != nil {
			s.log.Error("scheduler: notification handler failed: {Error}", err)
		}
		return
	}

	if errors.Is(err, context.Canceled) {
		s.sendResponse(parentCtx, respCh, jsonrpc.NewError(*id, jsonrpc.CodeRequestCancelled, "request cancelled", nil))
		if s.metrics != nil {
			s.metrics.RequestsCancelled.Add(parentCtx, 1)
		}
		return
	}

	if env := h.ShapeResponse(*id, result, err); env != nil {
		s.sendResponse(parentCtx, respCh, env)
	}
}

func (s *Scheduler) handleCancel(cancels *cancelTable, env *jsonrpc.Envelope) {
	params, err := handler.DecodeCancelParams(env.Params)
	if err != nil {
		s.log.Warn("scheduler: malformed $/cancelRequest params: {Error}", err)
		return
	}
	id, ok := cancelIDFromParam(params.ID)
	if !ok {
		return
	}
	cancels.cancel(id)
}

func (s *Scheduler) dispatchServerTask(ctx context.Context, sem *semaphore.Weighted, task dispatch.ServerTask, serverTaskCh chan dispatch.ServerTask, respCh chan<- *jsonrpc.Envelope) {
	plan := task.PlanLocks(s.state)

	if err := sem.Acquire(ctx, 1); err != nil {
		return
	}

	ready := make(chan struct{})
	go func() {
		defer sem.Release(1)
		handles := state.Acquire(s.state, plan)
		close(ready)

		result, err := task.Body(ctx, handles)
		handles.Release()

		if err != nil {
			s.log.Error("scheduler: server task {Method} failed: {Error}", task.Method, err)
			return
		}
		if result == nil {
			return
		}

		notifEnv, marshalErr := jsonrpc.NewNotification(task.Method, result)
		if marshalErr != nil {
			s.log.Error("scheduler: marshal {Method} notification: {Error}", task.Method, marshalErr)
			return
		}
		if s.metrics != nil && task.Method == "textDocument/publishDiagnostics" {
			s.metrics.DiagnosticsPublished.Add(ctx, 1)
		}
		s.sendResponse(ctx, respCh, notifEnv)
	}()
	<-ready
}

// writeLoop drains respCh, framing and writing each envelope in turn. On
// shutdown it performs one best-effort drain of whatever is already
// buffered before returning.
func (s *Scheduler) writeLoop(ctx context.Context, writer *transport.Writer, respCh <-chan *jsonrpc.Envelope) error {
	for {
		select {
		case env, ok := <-respCh:
			if !ok {
				return nil
			}
			if err := s.writeEnvelope(writer, env); err != nil {
				return err
			}
		case <-ctx.Done():
			s.drainResponses(writer, respCh)
			return nil
		}
	}
}

func (s *Scheduler) drainResponses(writer *transport.Writer, respCh <-chan *jsonrpc.Envelope) {
	for {
		select {
		case env := <-respCh:
			if err := s.writeEnvelope(writer, env); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Scheduler) writeEnvelope(writer *transport.Writer, env *jsonrpc.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		s.log.Error("scheduler: marshal response: {Error}", err)
		return nil
	}
	return writer.WriteFrame(raw)
}

func (s *Scheduler) sendResponse(ctx context.Context, respCh chan<- *jsonrpc.Envelope, env *jsonrpc.Envelope) {
	select {
	case respCh <- env:
	case <-ctx.Done():
	}
}
