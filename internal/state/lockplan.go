package state

import (
	"github.com/strob0t/ruffls/internal/buffer"
	"github.com/strob0t/ruffls/internal/check"
)

// Capability is the access level a handler declares for one ServerState
// field.
type Capability int

const (
	// None means the handler never touches this field.
	None Capability = iota
	// Read grants a shared read lease.
	Read
	// Write grants an exclusive write lease.
	Write
)

// LockPlan is the static per-handler declaration of which ServerState
// fields it touches and how. Produced by a handler's PlanLocks function,
// which only reads ServerState (e.g. to special-case behavior once
// initialized) and never itself blocks on a field lock.
type LockPlan struct {
	ProjectRoot  Capability
	OpenBuffers  Capability
	Capabilities Capability
	Settings     Capability
	Checks       Capability
}

// Handles holds the active guards a handler body was granted, one slot per
// field its LockPlan requested. A nil slot means the plan requested None for
// that field; calling its accessor anyway is a programmer error.
type Handles struct {
	state *ServerState
	plan  LockPlan

	projectRootHeld  bool
	openBuffersHeld  bool
	capabilitiesHeld bool
	settingsHeld     bool
	checksHeld       bool
}

// Acquire takes every lock plan declares, in the fixed field order
// ProjectRoot, OpenBuffers, Capabilities, Settings, Checks, so that any two
// concurrently-spawned handlers always contend for locks in the same order
// and can never deadlock against each other.
func Acquire(s *ServerState, plan LockPlan) *Handles {
	h := &Handles{state: s, plan: plan}

	switch plan.ProjectRoot {
	case Read:
		s.projectRootMu.RLock()
		h.projectRootHeld = true
	case Write:
		s.projectRootMu.Lock()
		h.projectRootHeld = true
	}

	switch plan.OpenBuffers {
	case Read:
		s.openBuffersMu.RLock()
		h.openBuffersHeld = true
	case Write:
		s.openBuffersMu.Lock()
		h.openBuffersHeld = true
	}

	switch plan.Capabilities {
	case Read:
		s.capabilitiesMu.RLock()
		h.capabilitiesHeld = true
	case Write:
		s.capabilitiesMu.Lock()
		h.capabilitiesHeld = true
	}

	switch plan.Settings {
	case Read:
		s.settingsMu.RLock()
		h.settingsHeld = true
	case Write:
		s.settingsMu.Lock()
		h.settingsHeld = true
	}

	switch plan.Checks {
	case Read:
		s.checksMu.RLock()
		h.checksHeld = true
	case Write:
		s.checksMu.Lock()
		h.checksHeld = true
	}

	return h
}

// Release releases every lock this Handles was granted, in reverse
// acquisition order. Handler bodies must defer this exactly once.
func (h *Handles) Release() {
	if h.checksHeld {
		if h.plan.Checks == Write {
			h.state.checksMu.Unlock()
		} else {
			h.state.checksMu.RUnlock()
		}
	}
	if h.settingsHeld {
		if h.plan.Settings == Write {
			h.state.settingsMu.Unlock()
		} else {
			h.state.settingsMu.RUnlock()
		}
	}
	if h.capabilitiesHeld {
		if h.plan.Capabilities == Write {
			h.state.capabilitiesMu.Unlock()
		} else {
			h.state.capabilitiesMu.RUnlock()
		}
	}
	if h.openBuffersHeld {
		if h.plan.OpenBuffers == Write {
			h.state.openBuffersMu.Unlock()
		} else {
			h.state.openBuffersMu.RUnlock()
		}
	}
	if h.projectRootHeld {
		if h.plan.ProjectRoot == Write {
			h.state.projectRootMu.Unlock()
		} else {
			h.state.projectRootMu.RUnlock()
		}
	}
}

// ProjectRoot returns the project root pointer. The plan must have
// requested at least Read for ProjectRoot.
func (h *Handles) ProjectRoot() *string {
	return h.state.projectRoot
}

// SetProjectRoot overwrites the project root pointer. The plan must have
// requested Write for ProjectRoot.
func (h *Handles) SetProjectRoot(root *string) {
	h.state.projectRoot = root
}

// OpenBuffers returns the live open-buffers map. The plan must have
// requested at least Read for OpenBuffers. Callers holding only Read must
// not mutate the returned map.
func (h *Handles) OpenBuffers() map[URI]*buffer.DocumentBuffer {
	return h.state.openBuffers
}

// Capabilities returns the advertised capability set. The plan must have
// requested at least Read for Capabilities.
func (h *Handles) Capabilities() ServerCapabilities {
	return h.state.capabilities
}

// Settings returns the current lint settings. The plan must have requested
// at least Read for Settings.
func (h *Handles) Settings() LintSettings {
	return h.state.settings
}

// SetSettings overwrites the lint settings. The plan must have requested
// Write for Settings.
func (h *Handles) SetSettings(s LintSettings) {
	h.state.settings = s
}

// Checks returns the shared check registry. The plan must have requested at
// least Read for Checks (Read is sufficient even for registry mutations
// that go through the registry's own internal lock, e.g. Replace; Write is
// required only when a handler needs exclusivity at the ServerState field
// level, e.g. didClose's combined purge of OpenBuffers and Checks).
func (h *Handles) Checks() *check.Registry {
	return h.state.checks
}
