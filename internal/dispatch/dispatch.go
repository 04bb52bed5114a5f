// Package dispatch defines the shapes the scheduler and the concrete
// handlers share: a Handler's decode/lock-plan/body/response-shape
// quadruple, the registries that map method names to handlers, and the
// server-initiated task shape used for work like publishing diagnostics
// that the scheduler runs through the same lock-plan-then-spawn pipeline as
// client messages.
package dispatch

import (
	"context"
	"encoding/json"

	"github.com/strob0t/ruffls/internal/jsonrpc"
	"github.com/strob0t/ruffls/internal/state"
)

// Handler is the record registered per JSON-RPC method.
type Handler struct {
	// Decode turns optional raw parameters into a typed input, or an
	// InvalidParams error.
	Decode func(params json.RawMessage) (any, *jsonrpc.Error)

	// PlanLocks consults the current ServerState and returns the capability
	// this handler needs per field. It must not block on any field lock
	// itself.
	PlanLocks func(s *state.ServerState) state.LockPlan

	// Body is the goroutine core, given the leases PlanLocks requested
	// (already acquired), a channel for enqueuing server-initiated follow-up
	// tasks (e.g. run-diagnostics after an edit), and the decoded input.
	Body func(ctx context.Context, h *state.Handles, tasks chan<- ServerTask, input any) (any, error)

	// ShapeResponse wraps the body's result into a response Envelope for
	// requests. For notifications it is nil on success; notifications only
	// ever produce an Envelope on failure (logged, never sent for most
	// notification errors, since notifications have no id to reply to).
	ShapeResponse func(id jsonrpc.ID, result any, err error) *jsonrpc.Envelope
}

// ServerTaskKind classifies a ServerTask. Only TaskNotification currently has
// a registered producer (publishDiagnostics); TaskRequest and TaskWork exist
// as typed constructors reserved for future server-initiated requests and
// background work.
type ServerTaskKind int

const (
	TaskNotification ServerTaskKind = iota
	TaskRequest
	TaskWork
)

// ServerTask is work the scheduler should run through the same
// lock-plan-then-spawn pipeline used for inbound client messages.
type ServerTask struct {
	Kind      ServerTaskKind
	Method    string
	PlanLocks func(s *state.ServerState) state.LockPlan
	Body      func(ctx context.Context, h *state.Handles) (any, error)
}

// NewNotificationTask builds a server-initiated notification task.
func NewNotificationTask(method string, planLocks func(*state.ServerState) state.LockPlan, body func(context.Context, *state.Handles) (any, error)) ServerTask {
	return ServerTask{Kind: TaskNotification, Method: method, PlanLocks: planLocks, Body: body}
}

// ClientMessage wraps one decoded inbound JSON-RPC envelope routed to the
// scheduler's dispatcher.
type ClientMessage struct {
	Envelope *jsonrpc.Envelope
}

// Task is the union the scheduler's task channel carries.
type Task struct {
	Client *ClientMessage
	Server *ServerTask
}

// Registry maps method names to Handlers, separately for requests and
// notifications, since a method may legally only ever appear in one role.
type Registry struct {
	Requests      map[string]*Handler
	Notifications map[string]*Handler
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		Requests:      make(map[string]*Handler),
		Notifications: make(map[string]*Handler),
	}
}

// RegisterRequest installs a request handler under method.
func (r *Registry) RegisterRequest(method string, h *Handler) {
	r.Requests[method] = h
}

// RegisterNotification installs a notification handler under method.
func (r *Registry) RegisterNotification(method string, h *Handler) {
	r.Notifications[method] = h
}
