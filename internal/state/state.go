// Package state holds the daemon's shared mutable state and the two-phase
// lock-planning discipline the scheduler uses to acquire it safely: plan
// the exact read/write leases a handler needs while holding nothing, then
// acquire them in one fixed field order so no two handlers can deadlock
// against each other.
package state

import (
	"sync"

	"github.com/strob0t/ruffls/internal/buffer"
	"github.com/strob0t/ruffls/internal/check"
)

// URI identifies an open document, e.g. "file:///home/user/project/t.py".
type URI = string

// ServerCapabilities is the fixed capability set advertised at initialize
// time. It never changes afterward, but is still stored behind its own
// field lock for uniformity with the other ServerState fields.
type ServerCapabilities struct {
	TextDocumentSync TextDocumentSyncOptions `json:"textDocumentSync"`
	CodeActionProvider bool                  `json:"codeActionProvider"`
}

// TextDocumentSyncOptions mirrors the LSP TextDocumentSyncOptions shape this
// daemon advertises.
type TextDocumentSyncOptions struct {
	OpenClose bool `json:"openClose"`
	Change    int  `json:"change"` // 2 == Incremental
	WillSave  bool `json:"willSave"`
}

// TextDocumentSyncIncremental is the LSP TextDocumentSyncKind value this
// daemon always advertises and requires of its clients.
const TextDocumentSyncIncremental = 2

// DefaultCapabilities is the one capability set this daemon ever advertises.
var DefaultCapabilities = ServerCapabilities{
	TextDocumentSync: TextDocumentSyncOptions{
		OpenClose: true,
		Change:    TextDocumentSyncIncremental,
		WillSave:  true,
	},
	CodeActionProvider: true,
}

// LintSettings holds the lint engine invocation settings negotiated at
// initialize time (or defaulted), independent of process-wide config.Lint.
type LintSettings struct {
	Args []string
}

// ServerState is a record of independently-locked fields. No handler body
// acquires more than the fields its lock plan declared, and the scheduler
// always acquires across handlers in the fixed order: ProjectRoot,
// OpenBuffers, Capabilities, Settings, Checks.
type ServerState struct {
	projectRootMu sync.RWMutex
	projectRoot   *string

	openBuffersMu sync.RWMutex
	openBuffers   map[URI]*buffer.DocumentBuffer

	capabilitiesMu sync.RWMutex
	capabilities   ServerCapabilities

	settingsMu sync.RWMutex
	settings   LintSettings

	checksMu sync.RWMutex
	checks   *check.Registry
}

// New builds a ServerState with the fixed capabilities and an empty
// document/check set. projectRoot may be nil if the client's
// InitializeParams carried none.
func New(projectRoot *string, settings LintSettings) *ServerState {
	return &ServerState{
		projectRoot:  projectRoot,
		openBuffers:  make(map[URI]*buffer.DocumentBuffer),
		capabilities: DefaultCapabilities,
		settings:     settings,
		checks:       check.NewRegistry(),
	}
}
