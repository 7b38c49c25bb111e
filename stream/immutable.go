package stream

// Immutable is the read-only counterpart to Stream: every read returns a new
// Immutable rather than mutating receiver state. The suggestion engine hands
// these to SuggestionProviders so a provider cannot accidentally perturb the
// walk shared with sibling candidates (spec §4.B).
type Immutable struct {
	s Stream
}

// NewImmutable snapshots a Stream into an Immutable view.
func NewImmutable(s *Stream) Immutable {
	return Immutable{s: Stream{runes: s.runes, pos: s.pos}}
}

func (i Immutable) Position() int      { return i.s.pos }
func (i Immutable) HasRemaining() bool { return i.s.HasRemaining() }
func (i Immutable) Peek() rune         { return i.s.Peek() }
func (i Immutable) PeekToken() string  { return i.s.PeekToken() }

// ReadUnquotedString returns the token that would be read plus an Immutable
// positioned past it — the receiver itself is never mutated.
func (i Immutable) ReadUnquotedString() (string, Immutable) {
	cp := i.s
	tok := cp.ReadUnquotedString()
	return tok, Immutable{s: cp}
}

// SkipWhitespace returns an Immutable advanced past any leading whitespace.
func (i Immutable) SkipWhitespace() Immutable {
	cp := i.s
	cp.SkipWhitespace()
	return Immutable{s: cp}
}

// ToMutable produces an independent mutable Stream at the same position, for
// callers (like a ParameterType.parse retry) that need real mutation after
// starting from an immutable snapshot.
func (i Immutable) ToMutable() *Stream {
	cp := i.s
	return &cp
}
