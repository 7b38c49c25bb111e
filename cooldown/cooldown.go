// Package cooldown implements the per-(command, actor) cooldown subsystem
// (spec §2 component J, §4.F "Cooldown handle"). Keys are derived with
// blake2b so the store never needs to hold variable-length identity
// strings, and updates are atomic per key via sync.Map — a keyed map with
// per-key atomicity, matching spec §5's concurrency guidance without a
// global mutex — an opaque-handle shape mirroring core/sdk/secret/handle.go,
// which similarly wraps a value behind a narrow mutation API.
package cooldown

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Key identifies one (ExecutableCommand, actor) cooldown record.
type Key [16]byte

// MakeKey derives a stable Key from a command identity and an actor
// identity string.
func MakeKey(commandID uuid.UUID, actorIdentity string) Key {
	sum := blake2b.Sum256(append(commandID[:], []byte(actorIdentity)...))
	var key Key
	copy(key[:], sum[:16])
	return key
}

// Store holds cooldown records keyed by (ExecutableCommand identity, actor
// identity), storing the monotonic instant at which the cooldown expires
// (spec §3 "Cooldown record").
type Store struct {
	records sync.Map // Key -> time.Time
}

// NewStore creates an empty cooldown store.
func NewStore() *Store {
	return &Store{}
}

// Remaining reports the time left before key's cooldown expires, and
// whether it is currently on cooldown at all.
func (s *Store) Remaining(key Key) (time.Duration, bool) {
	v, ok := s.records.Load(key)
	if !ok {
		return 0, false
	}
	expiry := v.(time.Time)
	remaining := time.Until(expiry)
	if remaining <= 0 {
		s.records.Delete(key)
		return 0, false
	}
	return remaining, true
}

// Set puts key on cooldown for d starting now.
func (s *Store) Set(key Key, d time.Duration) {
	s.records.Store(key, time.Now().Add(d))
}

// Remove clears any cooldown on key.
func (s *Store) Remove(key Key) {
	s.records.Delete(key)
}
