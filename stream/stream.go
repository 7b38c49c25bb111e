// Package stream implements the cursor-tracked reader over raw input text
// that the dispatcher and suggestion engine tokenize against (spec §4.A).
// It operates on a rune slice rather than raw bytes so cursor positions are
// stable across multi-byte UTF-8 tokens.
package stream

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/aledsdavies/lamp/cmderrors"
	"golang.org/x/text/cases"
)

var boolFold = cases.Fold()

// Stream is a mutable cursor over an input string. All read operations
// advance the cursor on success and leave it untouched on failure.
type Stream struct {
	runes []rune
	pos   int
}

// New wraps raw into a mutable Stream positioned at the start.
func New(raw string) *Stream {
	return &Stream{runes: []rune(raw)}
}

// Position returns the current rune-index cursor.
func (s *Stream) Position() int { return s.pos }

// SetPosition rewinds or advances the cursor to an arbitrary offset.
func (s *Stream) SetPosition(p int) { s.pos = p }

// HasRemaining reports whether any runes remain to be read.
func (s *Stream) HasRemaining() bool { return s.pos < len(s.runes) }

// Fork returns an independent Stream at the current position. Reads on the
// fork move only the fork's cursor, so the dispatcher can try several
// branches without mutating state shared with sibling attempts.
func (s *Stream) Fork() *Stream {
	cp := &Stream{runes: s.runes, pos: s.pos}
	return cp
}

// Peek returns the next rune without advancing, or 0 at EOF.
func (s *Stream) Peek() rune {
	if !s.HasRemaining() {
		return 0
	}
	return s.runes[s.pos]
}

// SkipWhitespace advances the cursor past any run of whitespace runes.
func (s *Stream) SkipWhitespace() {
	for s.HasRemaining() && unicode.IsSpace(s.runes[s.pos]) {
		s.pos++
	}
}

// ReadUnquotedString consumes runes until the next whitespace or EOF.
// Returns an empty string (no error) if the cursor is already at
// whitespace or EOF — callers needing a non-empty token use ReadString
// and check for MissingArgument themselves.
func (s *Stream) ReadUnquotedString() string {
	start := s.pos
	for s.HasRemaining() && !unicode.IsSpace(s.runes[s.pos]) {
		s.pos++
	}
	return string(s.runes[start:s.pos])
}

// ReadString reads a double-quoted string (honoring \" and \\ escapes) if
// the next rune is a quote, otherwise behaves like ReadUnquotedString.
func (s *Stream) ReadString() (string, error) {
	if !s.HasRemaining() {
		return "", cmderrors.New(cmderrors.KindMissingArgument)
	}
	if s.runes[s.pos] != '"' {
		return s.ReadUnquotedString(), nil
	}

	startPos := s.pos
	s.pos++ // consume opening quote
	var b strings.Builder
	for {
		if !s.HasRemaining() {
			s.pos = startPos
			return "", cmderrors.InvalidValue("", string(s.runes[startPos:]), "unterminated quoted string", startPos)
		}
		ch := s.runes[s.pos]
		if ch == '"' {
			s.pos++
			return b.String(), nil
		}
		if ch == '\\' && s.pos+1 < len(s.runes) {
			next := s.runes[s.pos+1]
			if next == '"' || next == '\\' {
				b.WriteRune(next)
				s.pos += 2
				continue
			}
		}
		b.WriteRune(ch)
		s.pos++
	}
}

// ReadRemaining consumes and returns everything left in the stream. Never
// fails; may return an empty string.
func (s *Stream) ReadRemaining() string {
	rest := string(s.runes[s.pos:])
	s.pos = len(s.runes)
	return rest
}

func (s *Stream) readToken(kind string) (string, error) {
	start := s.pos
	s.SkipWhitespace()
	if !s.HasRemaining() {
		s.pos = start
		return "", cmderrors.New(cmderrors.KindMissingArgument)
	}
	tok := s.ReadUnquotedString()
	if tok == "" {
		s.pos = start
		return "", cmderrors.New(cmderrors.KindMissingArgument)
	}
	return tok, nil
}

// ReadInt consumes and parses a base-10 integer literal.
func (s *Stream) ReadInt() (int32, error) {
	start := s.pos
	tok, err := s.readToken("int")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			s.pos = start
			return 0, cmderrors.NumberOutOfRange("", tok, start)
		}
		s.pos = start
		return 0, cmderrors.InvalidNumber("", tok, start)
	}
	return int32(n), nil
}

// ReadLong consumes and parses a base-10 64-bit integer literal.
func (s *Stream) ReadLong() (int64, error) {
	start := s.pos
	tok, err := s.readToken("long")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			s.pos = start
			return 0, cmderrors.NumberOutOfRange("", tok, start)
		}
		s.pos = start
		return 0, cmderrors.InvalidNumber("", tok, start)
	}
	return n, nil
}

// ReadDouble consumes and parses a 64-bit floating point literal.
func (s *Stream) ReadDouble() (float64, error) {
	start := s.pos
	tok, err := s.readToken("double")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			s.pos = start
			return 0, cmderrors.NumberOutOfRange("", tok, start)
		}
		s.pos = start
		return 0, cmderrors.InvalidNumber("", tok, start)
	}
	return n, nil
}

// ReadFloat consumes and parses a 32-bit floating point literal.
func (s *Stream) ReadFloat() (float32, error) {
	start := s.pos
	tok, err := s.readToken("float")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			s.pos = start
			return 0, cmderrors.NumberOutOfRange("", tok, start)
		}
		s.pos = start
		return 0, cmderrors.InvalidNumber("", tok, start)
	}
	return float32(n), nil
}

// ReadBoolean case-insensitively matches "true"/"false".
func (s *Stream) ReadBoolean() (bool, error) {
	start := s.pos
	tok, err := s.readToken("boolean")
	if err != nil {
		return false, err
	}
	switch boolFold.String(tok) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		s.pos = start
		return false, cmderrors.InvalidValue("", tok, "expected true or false", start)
	}
}

// PeekToken returns the next whitespace-delimited token without consuming
// it, used by the dispatcher to test literal matches before committing.
func (s *Stream) PeekToken() string {
	save := s.pos
	s.SkipWhitespace()
	tok := s.ReadUnquotedString()
	s.pos = save
	return tok
}
