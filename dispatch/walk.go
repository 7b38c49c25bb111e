// Package dispatch implements the token-by-token walk of the command tree
// (spec §4.D): per-branch parse attempts, candidate collection, and the
// default candidate/failure ranking policies. Walk is pure with respect to
// the tree — it resolves the best-matching ExecutableCommand (or the
// ranked failures, if none matched) but does not run conditions,
// permission, validators, hooks, or the handler itself; Execute, in this
// package, runs that pipeline on the selected candidate, and the root
// package calls Walk and then Execute.
package dispatch

import (
	"strings"

	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/stream"
	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
)

// Candidate is one complete attempt: a leaf reached with the input fully
// consumed, plus the ranking inputs (spec §4.D "Candidate ranking").
type Candidate struct {
	Leaf           *tree.ExecutableCommand
	Args           map[string]any
	LiteralMatches int
	PrioritySum    int
	DefaultsFilled int
}

// Failure is one attempt that did not reach a leaf, or reached one with
// unconsumed input (spec §4.D step 2b/3).
type Failure struct {
	Err      *cmderrors.CommandError
	Position int
	Order    int
}

// branchState accumulates ranking inputs and parsed arguments along one
// recursive-descent branch. Copied by value at each fork so sibling
// branches never observe each other's progress.
type branchState struct {
	literalMatches int
	prioritySum    int
	defaultsFilled int
	args           map[string]any
}

func (b branchState) withLiteral() branchState {
	nb := b
	nb.literalMatches++
	return nb
}

func (b branchState) withParam(name string, value any, prioritySum int, isDefault bool) branchState {
	nb := b
	nb.prioritySum += prioritySum
	if isDefault {
		nb.defaultsFilled++
	}
	nb.args = make(map[string]any, len(b.args)+1)
	for k, v := range b.args {
		nb.args[k] = v
	}
	nb.args[name] = value
	return nb
}

// walker holds the state shared across one full Walk invocation: the
// dispatch context (for parser/validator calls), accumulated candidates
// and failures, and the max-failed-attempts bound (spec §4.D "The
// dispatcher exposes a maximum-failed-attempts setting").
type walker struct {
	ctx        *types.Context
	maxFailed  int
	order      int
	candidates []Candidate
	failures   []Failure
}

func (w *walker) failedBudgetExceeded() bool {
	return w.maxFailed > 0 && len(w.failures) >= w.maxFailed
}

func (w *walker) recordFailure(err *cmderrors.CommandError, pos int) {
	if w.failedBudgetExceeded() {
		return
	}
	err.Position = pos
	w.failures = append(w.failures, Failure{Err: err, Position: pos, Order: w.order})
	w.order++
}

func (w *walker) recordCandidate(leaf *tree.ExecutableCommand, state branchState) {
	w.candidates = append(w.candidates, Candidate{
		Leaf:           leaf,
		Args:           state.args,
		LiteralMatches: state.literalMatches,
		PrioritySum:    state.prioritySum,
		DefaultsFilled: state.defaultsFilled,
	})
}

// Walk performs the full recursive-descent dispatch walk from root over
// raw, returning the top-ranked Candidate (nil if none matched) and every
// recorded Failure, ranked by the default failure-ranking policy (spec
// §4.D). maxFailedAttempts <= 0 means unlimited.
func Walk(root *tree.Node, ctx *types.Context, raw string, maxFailedAttempts int) (*Candidate, []Failure) {
	w := &walker{ctx: ctx, maxFailed: maxFailedAttempts}
	w.visit(root, stream.New(raw), branchState{})

	RankCandidates(w.candidates)
	RankFailures(w.failures)

	if len(w.candidates) == 0 {
		return nil, w.failures
	}
	best := w.candidates[0]
	return &best, w.failures
}

func restIsEmpty(s *stream.Stream) bool {
	cp := s.Fork()
	cp.SkipWhitespace()
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

func (w *walker) visit(node *tree.Node, s *stream.Stream, state branchState) {
	if w.failedBudgetExceeded() {
		return
	}

	for _, leaf := range node.Leaves() {
		if restIsEmpty(s) {
			w.recordCandidate(leaf, state)
			continue
		}
		cp := s.Fork()
		cp.SkipWhitespace()
		pos := cp.Position()
		surplus := cp.ReadRemaining()
		w.recordFailure(cmderrors.ExtraArguments(surplus, pos), pos)
	}

	token := s.PeekToken()
	if token != "" {
		if ln, ok := matchLiteral(node, token); ok {
			next := s.Fork()
			next.SkipWhitespace()
			next.ReadUnquotedString()
			w.visit(ln.Children(), next, state.withLiteral())
			return
		}
	}

	for _, pn := range node.Parameters() {
		w.attemptParameter(pn, s, state)
	}
}

func (w *walker) attemptParameter(pn *tree.ParameterNode, s *stream.Stream, state branchState) {
	if w.failedBudgetExceeded() {
		return
	}

	if restIsEmpty(s) {
		if pn.Descriptor.Optional {
			var value any
			if pn.Descriptor.Default != nil {
				value = pn.Descriptor.Default.Value
			}
			next := state.withParam(pn.Descriptor.Name, value, pn.Parser.Priority().Int(), true)
			w.visit(pn.Children(), s.Fork(), next)
			return
		}
		w.recordFailure(cmderrors.MissingArgument(pn.Descriptor.Name, typeName(pn), s.Position()), s.Position())
		return
	}

	fork := s.Fork()
	fork.SkipWhitespace()
	value, err := pn.Parser.ParseAny(fork, w.ctx)
	if err != nil {
		ce, ok := err.(*cmderrors.CommandError)
		if !ok {
			ce = cmderrors.InvalidValue(pn.Descriptor.Name, strings.TrimSpace(s.PeekToken()), err.Error(), s.Position())
		}
		if ce.ParameterName == "" {
			ce.ParameterName = pn.Descriptor.Name
		}
		w.recordFailure(ce, ce.Position)
		return
	}

	next := state.withParam(pn.Descriptor.Name, value, pn.Parser.Priority().Int(), false)
	w.visit(pn.Children(), fork, next)
}

func typeName(pn *tree.ParameterNode) string {
	if pn.Descriptor.Type == nil {
		return ""
	}
	return pn.Descriptor.Type.String()
}
