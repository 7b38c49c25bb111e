// Package suggest implements the completion engine (spec §4.E): it mirrors
// the dispatcher's tree walk but truncates input at the cursor and, at the
// walk frontier, collects literal spellings and suggestion-provider output
// instead of executing anything. Providers are handed an Immutable stream
// view so they cannot perturb state shared with sibling branches.
package suggest

import (
	"sort"
	"strings"

	"github.com/aledsdavies/lamp/stream"
	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestions returns completions for raw truncated at cursor (a rune
// index), walking root the way the dispatcher does but stopping at the
// walk frontier instead of requiring a complete match (spec §4.E).
// Results are de-duplicated and insertion-order preserved; when the
// partial token has no exact-prefix literal matches, the literal set is
// re-ranked by fuzzy closeness so a typo still surfaces its neighbors.
func Suggestions(root *tree.Node, ctx *types.Context, raw string, cursor int) []string {
	truncated := truncate(raw, cursor)

	collector := &collector{seen: make(map[string]bool)}
	collector.walk(root, stream.New(truncated), ctx)

	return collector.rank(partialToken(truncated))
}

func truncate(raw string, cursor int) string {
	runes := []rune(raw)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	return string(runes[:cursor])
}

func partialToken(truncated string) string {
	fields := strings.Fields(truncated)
	if len(fields) == 0 {
		return ""
	}
	if strings.HasSuffix(truncated, " ") {
		return ""
	}
	return fields[len(fields)-1]
}

type collector struct {
	order []string
	seen  map[string]bool
}

func (c *collector) add(s string) {
	if s == "" || c.seen[s] {
		return
	}
	c.seen[s] = true
	c.order = append(c.order, s)
}

func (c *collector) rank(partial string) []string {
	if partial == "" {
		return c.order
	}
	var exact []string
	for _, s := range c.order {
		if strings.HasPrefix(s, partial) {
			exact = append(exact, s)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	ranks := fuzzy.RankFindFold(partial, c.order)
	sort.Sort(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// walk descends root the way dispatch.walker does for a complete dispatch,
// except it never requires a literal/parameter match to succeed: it
// descends past every fully-typed token, and at the frontier node (the one
// holding the partial token at the cursor) it records that node's children
// as completions. Nodes passed on the way are not recorded.
func (c *collector) walk(node *tree.Node, s *stream.Stream, ctx *types.Context) {
	token := s.PeekToken()

	// Still-unconsumed, fully-typed token: if it exactly matches a literal,
	// descend past it rather than offering that literal as a completion of
	// itself.
	if token != "" && !endsAtCursor(s) {
		if ln, ok := matchLiteral(node, token); ok {
			next := s.Fork()
			next.SkipWhitespace()
			next.ReadUnquotedString()
			c.walk(ln.Children(), next, ctx)
			return
		}
		for _, pn := range node.Parameters() {
			fork := s.Fork()
			fork.SkipWhitespace()
			if _, err := pn.Parser.ParseAny(fork, ctx); err == nil {
				c.walk(pn.Children(), fork, ctx)
			}
		}
		return
	}

	// At the frontier: offer every literal spelling and every parameter's
	// suggestions against the partial token.
	for _, ln := range node.Literals() {
		c.add(ln.Spelling)
	}
	for _, pn := range node.Parameters() {
		if pn.Suggestion == nil {
			continue
		}
		partial := stream.NewImmutable(s)
		for _, sug := range pn.Suggestion.Suggestions(partial, ctx) {
			c.add(sug)
		}
	}
}

// endsAtCursor reports whether s's remaining content is exactly the partial
// token being typed right now (no trailing whitespace after it) — i.e.
// whether this token is still being completed rather than fully typed.
func endsAtCursor(s *stream.Stream) bool {
	cp := s.Fork()
	cp.SkipWhitespace()
	cp.ReadUnquotedString()
	return !cp.HasRemaining()
}

func matchLiteral(node *tree.Node, token string) (*tree.LiteralNode, bool) {
	for _, ln := range node.Literals() {
		if ln.Matches(token) {
			return ln, true
		}
	}
	return nil, false
}
