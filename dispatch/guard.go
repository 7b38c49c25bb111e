package dispatch

import (
	"sync"

	"github.com/aledsdavies/lamp/cmderrors"
)

// Guard bounds dispatch reentrancy per actor (spec §5 "Reentrancy": hooks
// may not themselves trigger dispatch cycles; the core detects and rejects
// self-triggering hooks by a depth guard with a fixed limit). Go has no
// thread-local storage, so the guard keys depth by actor identity — the
// correlating value a handler-triggered recursive dispatch for the same
// actor would share — rather than by goroutine.
type Guard struct {
	mu    sync.Mutex
	depth map[string]int
	max   int
}

// NewGuard creates a reentrancy guard allowing up to max nested dispatches
// per actor identity.
func NewGuard(max int) *Guard {
	return &Guard{depth: make(map[string]int), max: max}
}

// Enter increments the actor's nesting depth, returning a release function
// to call (always, via defer) when the dispatch completes. It returns
// KindCommandError if entering would exceed the configured limit.
func (g *Guard) Enter(actorIdentity string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.max > 0 && g.depth[actorIdentity] >= g.max {
		return func() {}, cmderrors.Generic("dispatch reentrancy depth exceeded")
	}
	g.depth[actorIdentity]++
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.depth[actorIdentity]--
		if g.depth[actorIdentity] <= 0 {
			delete(g.depth, actorIdentity)
		}
	}, nil
}
