package tree

import (
	"reflect"

	"github.com/aledsdavies/lamp/types"
	"golang.org/x/text/cases"
)

// foldCaser performs the case-fold used for literal matching — display
// spellings stay as authored; only the lookup key is folded (spec §4.D
// step 2a: "case-insensitive for the lookup").
var foldCaser = cases.Fold()

// caseSensitive disables folding entirely when BuildConfig requests
// case-sensitive literal matching. Process-wide rather than per-Tree,
// matching the single-dispatcher-per-process shape the rest of the
// package assumes.
var caseSensitive = false

// SetCaseSensitive toggles literal-matching case sensitivity for every
// Tree in the process, consulted once by Builder.Build from BuildConfig.
func SetCaseSensitive(sensitive bool) {
	caseSensitive = sensitive
}

func foldKey(s string) string {
	if caseSensitive {
		return s
	}
	return foldCaser.String(s)
}

// ParameterNode is a tree node for one parameter of an executable (spec
// §3). It carries its descriptor, resolved parser, resolved suggestion
// provider, and priority rank.
type ParameterNode struct {
	Descriptor ParameterDescriptor
	Parser     types.Parser
	Suggestion types.SuggestionProvider

	children *Node
}

// Children returns this node's child Node, creating it if absent.
func (p *ParameterNode) Children() *Node {
	if p.children == nil {
		p.children = NewNode()
	}
	return p.children
}

func (p *ParameterNode) priority() types.Priority {
	if p.Parser == nil {
		return types.PriorityDefault
	}
	return p.Parser.Priority()
}

// sameSibling reports whether two ParameterNodes should merge into one tree
// node (spec §4.C step 4: "siblings merge if their descriptor types,
// names, and parser identities are equal").
func (p *ParameterNode) sameSibling(other *ParameterNode) bool {
	if p.Descriptor.Name != other.Descriptor.Name {
		return false
	}
	if p.Descriptor.Type != other.Descriptor.Type {
		return false
	}
	pv, ov := reflect.ValueOf(p.Parser), reflect.ValueOf(other.Parser)
	if !pv.IsValid() || !ov.IsValid() {
		return pv.IsValid() == ov.IsValid()
	}
	if !pv.Comparable() || !ov.Comparable() {
		return false
	}
	return p.Parser == other.Parser
}

// LiteralNode is a tree node for a fixed token (spec §3). It carries its
// spelling (canonical + lowercase for matching) and aliases (alternate
// spellings mapping to the same node), and an optional permission
// inherited from the enclosing declaration.
type LiteralNode struct {
	Spelling      string
	LowerSpelling string
	Aliases       []string

	Permission types.Permission

	children *Node
}

func newLiteralNode(spelling string) *LiteralNode {
	return &LiteralNode{
		Spelling:      spelling,
		LowerSpelling: foldKey(spelling),
		children:      NewNode(),
	}
}

// Children returns this node's child Node, creating it if absent.
func (l *LiteralNode) Children() *Node {
	if l.children == nil {
		l.children = NewNode()
	}
	return l.children
}

// Matches reports whether token (case-insensitive) names this literal via
// its canonical spelling or any alias (spec §4.D step 2a).
func (l *LiteralNode) Matches(token string) bool {
	lower := foldKey(token)
	if lower == l.LowerSpelling {
		return true
	}
	for _, alias := range l.Aliases {
		if foldKey(alias) == lower {
			return true
		}
	}
	return false
}

// Node holds the children of one tree node: any number of LiteralNode
// siblings (pairwise distinct lowercased spellings) and a slice of
// parameter siblings. A parameter node that does not merge with an
// existing sibling (same name, type and parser) is appended as a further
// sibling, whatever its name or type, so overloads of the same path prefix
// each keep their own ParameterNode; the dispatcher disambiguates among
// them by trying each.
type Node struct {
	literalOrder []string // insertion order of literal keys (lowercase)
	literals     map[string]*LiteralNode
	parameters   []*ParameterNode
	leaves       []*ExecutableCommand
}

// Leaves returns the ExecutableCommand overloads terminating exactly at
// this node, in registration order.
func (n *Node) Leaves() []*ExecutableCommand {
	out := make([]*ExecutableCommand, len(n.leaves))
	copy(out, n.leaves)
	return out
}

func (n *Node) addLeaf(cmd *ExecutableCommand) {
	n.leaves = append(n.leaves, cmd)
}

func (n *Node) removeLeaf(cmd *ExecutableCommand) {
	for i, existing := range n.leaves {
		if existing == cmd {
			n.leaves = append(n.leaves[:i], n.leaves[i+1:]...)
			return
		}
	}
}

func NewNode() *Node {
	return &Node{literals: make(map[string]*LiteralNode)}
}

// literalChild returns the existing LiteralNode for spelling, if any.
func (n *Node) literalChild(spelling string) (*LiteralNode, bool) {
	ln, ok := n.literals[foldKey(spelling)]
	return ln, ok
}

// ensureLiteral returns the LiteralNode for spelling, creating it (and
// recording spelling as an alias if a differently-cased canonical already
// exists) if necessary.
func (n *Node) ensureLiteral(spelling string) *LiteralNode {
	key := foldKey(spelling)
	if ln, ok := n.literals[key]; ok {
		if ln.Spelling != spelling {
			hasAlias := false
			for _, a := range ln.Aliases {
				if a == spelling {
					hasAlias = true
					break
				}
			}
			if !hasAlias {
				ln.Aliases = append(ln.Aliases, spelling)
			}
		}
		return ln
	}
	ln := newLiteralNode(spelling)
	n.literals[key] = ln
	n.literalOrder = append(n.literalOrder, key)
	return ln
}

// Literals returns this node's literal children in insertion order.
func (n *Node) Literals() []*LiteralNode {
	out := make([]*LiteralNode, 0, len(n.literalOrder))
	for _, key := range n.literalOrder {
		out = append(out, n.literals[key])
	}
	return out
}

// Parameters returns this node's parameter-sibling overloads in insertion
// order.
func (n *Node) Parameters() []*ParameterNode {
	out := make([]*ParameterNode, len(n.parameters))
	copy(out, n.parameters)
	return out
}

// findOrAddParameter returns an existing mergeable ParameterNode sibling or
// appends candidate as a new overload slot.
func (n *Node) findOrAddParameter(candidate *ParameterNode) *ParameterNode {
	for _, existing := range n.parameters {
		if existing.sameSibling(candidate) {
			return existing
		}
	}
	candidate.children = NewNode()
	n.parameters = append(n.parameters, candidate)
	return candidate
}

// isEmpty reports whether this node set has no children at all — used when
// pruning branches left empty by unregistration.
func (n *Node) isEmpty() bool {
	return len(n.literals) == 0 && len(n.parameters) == 0 && len(n.leaves) == 0
}

func (n *Node) removeLiteral(key string) {
	if ln, ok := n.literals[key]; ok {
		_ = ln
		delete(n.literals, key)
		for i, k := range n.literalOrder {
			if k == key {
				n.literalOrder = append(n.literalOrder[:i], n.literalOrder[i+1:]...)
				break
			}
		}
	}
}

func (n *Node) removeParameter(p *ParameterNode) {
	for i, existing := range n.parameters {
		if existing == p {
			n.parameters = append(n.parameters[:i], n.parameters[i+1:]...)
			return
		}
	}
}
