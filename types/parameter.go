package types

import (
	"reflect"

	"github.com/aledsdavies/lamp/stream"
)

// ParameterType is the strategy for parsing one argument from the token
// stream into a typed value T (spec §4.B). Implementations are written
// against the concrete T; Adapt erases them to Parser for storage in the
// tree and registries.
type ParameterType[T any] interface {
	Parse(s *stream.Stream, ctx *Context) (T, error)
}

// PrioritizedParameterType is the optional extension a ParameterType
// implements to claim a non-default resolution priority (spec §4.B).
type PrioritizedParameterType interface {
	ParsePriority() Priority
}

// SuggestingParameterType is the optional extension a ParameterType
// implements to supply its own default completions when no explicit
// @SuggestWith / registry entry overrides it (spec §4.C step 3).
type SuggestingParameterType interface {
	DefaultSuggestions() SuggestionProvider
}

// Parser is the erased, type-independent form of a ParameterType stored by
// the command tree and parameter-type registry — spec §9's "erased to a
// uniform invocation interface" applied to parsing specifically.
type Parser interface {
	ParseAny(s *stream.Stream, ctx *Context) (any, error)
	Priority() Priority
	DefaultSuggestionProvider() SuggestionProvider
}

type erasedParameterType[T any] struct {
	inner ParameterType[T]
}

func (e erasedParameterType[T]) ParseAny(s *stream.Stream, ctx *Context) (any, error) {
	return e.inner.Parse(s, ctx)
}

func (e erasedParameterType[T]) Priority() Priority {
	if p, ok := e.inner.(PrioritizedParameterType); ok {
		return p.ParsePriority()
	}
	return PriorityDefault
}

func (e erasedParameterType[T]) DefaultSuggestionProvider() SuggestionProvider {
	if s, ok := e.inner.(SuggestingParameterType); ok {
		return s.DefaultSuggestions()
	}
	return nil
}

// Adapt erases a typed ParameterType[T] into the uniform Parser interface.
func Adapt[T any](pt ParameterType[T]) Parser {
	return erasedParameterType[T]{inner: pt}
}

// ParameterTypeFactory produces a Parser for the given declared Go type and
// the parameter's annotations, or reports ok=false if it does not handle
// this input (spec §4.B "ParameterType.Factory"). Factories registered via
// the parameter-type registry are tried in precedence order until one
// succeeds.
type ParameterTypeFactory func(t reflect.Type, anns AnnotationList) (Parser, bool)

// ContextParameter is a value derived without reading input — the actor
// itself, a logger, a cooldown handle (spec §4.B). Like ParameterType it is
// generic over its produced type and erased for storage.
type ContextParameter[T any] interface {
	Resolve(ctx *Context) (T, error)
}

// ContextParameterResolver is the erased form of ContextParameter.
type ContextParameterResolver interface {
	ResolveAny(ctx *Context) (any, error)
}

type erasedContextParameter[T any] struct {
	inner ContextParameter[T]
}

func (e erasedContextParameter[T]) ResolveAny(ctx *Context) (any, error) {
	return e.inner.Resolve(ctx)
}

// AdaptContextParameter erases a typed ContextParameter[T].
func AdaptContextParameter[T any](cp ContextParameter[T]) ContextParameterResolver {
	return erasedContextParameter[T]{inner: cp}
}

// ContextParameterFactory recognizes parameter types/annotations that
// should be resolved without consuming input (e.g. the actor parameter, a
// @Cooldown handle parameter).
type ContextParameterFactory func(t reflect.Type, anns AnnotationList) (ContextParameterResolver, bool)

// AnnotationList is the minimal view the types package needs of
// annotation.List — declared here as an alias of an interface type to
// avoid a hard dependency cycle between types and annotation. The concrete
// type satisfying it is annotation.List.
type AnnotationList = interface {
	Has(kind reflect.Type) bool
	Get(kind reflect.Type) (any, bool)
}
