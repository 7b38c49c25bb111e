package tree

import (
	"reflect"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/types"
	"github.com/google/uuid"
)

// ExecutableCommand is a leaf binding a complete path to one handler (spec
// §3). Invariant: the ordered parameter node list equals placeholders in
// path order followed by unlisted parameters in declaration order; the
// first positional ContextParameter representing the actor, if any, is
// implicit and excluded from ParameterNodes.
type ExecutableCommand struct {
	ID   uuid.UUID
	Path []string

	// ParameterNodes is walk order: used by the dispatcher/suggestion
	// engine to parse input left to right.
	ParameterNodes []*ParameterNode

	// Parameters is full declaration order (including context
	// parameters), used to assemble the handler invocation vector.
	Parameters []ParameterDescriptor

	ContextResolvers map[string]types.ContextParameterResolver

	Handler         Handler
	Permission      types.Permission
	Conditions      []types.Condition
	Annotations     annotation.List
	ResponseHandler types.ResponseHandlerFunc

	// RegisteredAt is insertion order, the final tie-break for candidate
	// ranking (spec §4.D criterion 4). Failure ranking breaks ties on the
	// order in which failures were recorded instead.
	RegisteredAt int

	// RawTypes is the parameter type sequence used for the §4.C
	// conflict rule ("identical parameter-type sequences, by raw
	// type").
	RawTypes []reflect.Type

	chain []pruneStep
}

// FullPath renders the path as a single space-joined string, e.g. for log
// correlation and help introspection.
func (e *ExecutableCommand) FullPath() string {
	out := ""
	for i, seg := range e.Path {
		if i > 0 {
			out += " "
		}
		out += seg
	}
	return out
}

// Arity is the number of input-consuming parameter nodes. Candidate
// ranking counts defaults filled per candidate and the §4.C conflict rule
// compares RawTypes; neither reads Arity.
func (e *ExecutableCommand) Arity() int { return len(e.ParameterNodes) }

// pruneStep records one edge walked from root to this leaf, so
// unregistration can prune now-empty branches (spec §3 "unregistration
// cascades to prune now-empty branches").
type pruneStep struct {
	set       *Node
	literal   string // lowercase key, empty if this step was a parameter edge
	parameter *ParameterNode
}
