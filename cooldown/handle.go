package cooldown

import (
	"time"

	"github.com/aledsdavies/lamp/cmderrors"
)

// Annotation declares a method-level cooldown duration (spec §4.F): a
// handler annotated with Annotation{Duration: d} lets a bare Cooldown() call
// (no explicit duration) put the invoking actor on cooldown for d.
type Annotation struct {
	Duration time.Duration
}

// Handle is the per-invocation cooldown handle a handler receives through
// its Context (spec §4.F "Cooldown handle"). It is bound to one
// (ExecutableCommand, actor) key and, if the handler carries a cooldown
// Annotation, to that annotation's duration.
type Handle struct {
	store *Store
	key   Key
	bound *time.Duration
}

// NewHandle binds store and key into a per-invocation Handle. bound is the
// duration from a method-level Annotation, or nil if the handler declared
// none.
func NewHandle(store *Store, key Key, bound *time.Duration) *Handle {
	return &Handle{store: store, key: key, bound: bound}
}

// IsOnCooldown reports whether the bound actor is currently on cooldown for
// this command.
func (h *Handle) IsOnCooldown() bool {
	_, ok := h.store.Remaining(h.key)
	return ok
}

// RemainingTime returns the time left before the cooldown expires, or zero
// if not on cooldown.
func (h *Handle) RemainingTime() time.Duration {
	d, _ := h.store.Remaining(h.key)
	return d
}

// Cooldown puts the bound actor on cooldown. With an explicit duration it
// uses that; called bare, it falls back to the handler's annotated
// duration, raising KindUnboundCooldown if neither is available (spec §4.F:
// "cooldown() with no argument and no bound annotation is a build/runtime
// error").
func (h *Handle) Cooldown(d ...time.Duration) error {
	var dur time.Duration
	switch {
	case len(d) > 0:
		dur = d[0]
	case h.bound != nil:
		dur = *h.bound
	default:
		return cmderrors.UnboundCooldown()
	}
	h.store.Set(h.key, dur)
	return nil
}

// RemoveCooldown clears any cooldown currently held by the bound actor.
func (h *Handle) RemoveCooldown() {
	h.store.Remove(h.key)
}
