// Package tree implements the command trie (spec §3/§4.C "Command tree"):
// LiteralNode and ParameterNode tries built from handler declarations,
// ExecutableCommand leaves, insertion, conflict detection, and ordered
// path/child iteration for dispatch, suggestion, and help introspection.
package tree

import (
	"reflect"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/types"
)

// DefaultValue is the descriptor-level default-value carrier (spec §3
// "Parameter descriptor"). Embedders supply a concrete Value; the
// dispatcher substitutes it when a trailing optional parameter has no
// remaining input.
type DefaultValue struct {
	Value any
}

// ParameterDescriptor is (name, declared type, annotations, default,
// is-optional) — spec §3. Names are required for placeholder resolution.
type ParameterDescriptor struct {
	Name        string
	Type        reflect.Type
	Annotations annotation.List
	Default     *DefaultValue
	Optional    bool
}

// Handler is the erased invocation interface every ExecutableCommand binds
// to (spec §9 design note: "tree stores handlers erased to a uniform
// invocation interface (context) -> return-value, with argument marshalling
// done before the call"). args is the full declared-parameter-order vector,
// context parameters already resolved.
type Handler func(ctx *types.Context, args []any) (any, error)
