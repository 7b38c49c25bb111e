// Package hooks implements the on-registered, on-unregistered, and
// on-executed observer/veto chains around the command tree (spec §4.G).
// Each chain fires its hooks in registration order; any hook may set the
// shared CancelHandle, which prevents the underlying action but does not
// stop the remaining hooks from observing the cancellation.
package hooks

import (
	"sync"

	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
)

// CancelHandle is the single-bit, set-once latch passed to every hook in a
// firing. Any hook in the chain may cancel; later hooks still run and see
// WasCancelled() == true (spec §8 "Hook ordering" law).
type CancelHandle struct {
	mu        sync.Mutex
	cancelled bool
}

// Cancel sets the latch. Idempotent.
func (h *CancelHandle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancelled = true
}

// WasCancelled reports whether any hook so far has cancelled this firing.
func (h *CancelHandle) WasCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// RegisteredHook observes (and may veto) a command registration.
type RegisteredHook func(cmd *tree.ExecutableCommand, cancel *CancelHandle)

// UnregisteredHook observes (and may veto) a command unregistration.
type UnregisteredHook func(cmd *tree.ExecutableCommand, cancel *CancelHandle)

// ExecutedHook observes (and may veto) a handler invocation, immediately
// before it happens — this is the "pre-execution" firing point named in
// spec §4.D execution step d; the core defines only one execution-adjacent
// hook kind (spec §4.G lists exactly three), so the dispatcher's
// pre-dispatch and pre-execution mentions both route through ExecutedHook.
type ExecutedHook func(cmd *tree.ExecutableCommand, ctx *types.Context, cancel *CancelHandle)

// Chains bundles the three hook chains an embedder registers against.
type Chains struct {
	mu           sync.RWMutex
	registered   []RegisteredHook
	unregistered []UnregisteredHook
	executed     []ExecutedHook
}

// NewChains creates empty hook chains.
func NewChains() *Chains {
	return &Chains{}
}

// OnRegistered appends h to the registration chain.
func (c *Chains) OnRegistered(h RegisteredHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registered = append(c.registered, h)
}

// OnUnregistered appends h to the unregistration chain.
func (c *Chains) OnUnregistered(h UnregisteredHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unregistered = append(c.unregistered, h)
}

// OnExecuted appends h to the pre-execution chain.
func (c *Chains) OnExecuted(h ExecutedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executed = append(c.executed, h)
}

func (c *Chains) snapshotRegistered() []RegisteredHook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]RegisteredHook, len(c.registered))
	copy(out, c.registered)
	return out
}

func (c *Chains) snapshotUnregistered() []UnregisteredHook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]UnregisteredHook, len(c.unregistered))
	copy(out, c.unregistered)
	return out
}

func (c *Chains) snapshotExecuted() []ExecutedHook {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ExecutedHook, len(c.executed))
	copy(out, c.executed)
	return out
}

// FireRegistered runs the registration chain and reports whether any hook
// cancelled it.
func (c *Chains) FireRegistered(cmd *tree.ExecutableCommand) bool {
	handle := &CancelHandle{}
	for _, h := range c.snapshotRegistered() {
		h(cmd, handle)
	}
	return handle.WasCancelled()
}

// FireUnregistered runs the unregistration chain and reports whether any
// hook cancelled it.
func (c *Chains) FireUnregistered(cmd *tree.ExecutableCommand) bool {
	handle := &CancelHandle{}
	for _, h := range c.snapshotUnregistered() {
		h(cmd, handle)
	}
	return handle.WasCancelled()
}

// FireExecuted runs the pre-execution chain and reports whether any hook
// cancelled it.
func (c *Chains) FireExecuted(cmd *tree.ExecutableCommand, ctx *types.Context) bool {
	handle := &CancelHandle{}
	for _, h := range c.snapshotExecuted() {
		h(cmd, ctx, handle)
	}
	return handle.WasCancelled()
}
