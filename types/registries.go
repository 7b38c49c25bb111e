package types

import "github.com/aledsdavies/lamp/registry"

// Registries bundles every type-indexed factory registry the framework
// consults during ingestion and dispatch (spec §2 component C). A single
// Registries value is owned by the built Lamp instance and frozen after
// Builder.Build (spec §3 "Lifecycles").
type Registries struct {
	ParameterTypes     *registry.Registry[ParameterTypeFactory]
	ContextParameters  *registry.Registry[ContextParameterFactory]
	SuggestionProvider *registry.Registry[SuggestionProviderFactory]
	ResponseHandlers   *registry.Registry[ResponseHandlerFactory]
	Permissions        *registry.Registry[PermissionFactory]
	Conditions         *registry.Registry[ConditionFactory]
	Validators         *registry.Registry[ValidatorFactory]
	ExceptionHandlers  *registry.Registry[ExceptionHandlerFactory]
}

// NewRegistries allocates an empty set of registries.
func NewRegistries() *Registries {
	return &Registries{
		ParameterTypes:     registry.New[ParameterTypeFactory](),
		ContextParameters:  registry.New[ContextParameterFactory](),
		SuggestionProvider: registry.New[SuggestionProviderFactory](),
		ResponseHandlers:   registry.New[ResponseHandlerFactory](),
		Permissions:        registry.New[PermissionFactory](),
		Conditions:         registry.New[ConditionFactory](),
		Validators:         registry.New[ValidatorFactory](),
		ExceptionHandlers:  registry.New[ExceptionHandlerFactory](),
	}
}

// ExceptionHandler renders a dispatch-time error (raised by a handler, a
// validator, a condition, or response handling) into actor-facing output
// (spec §7 "exception handler registry").
type ExceptionHandler func(ctx *Context, err error) bool

// ExceptionHandlerFactory resolves the handler chain for a given error
// kind, matched with a fallback (spec §7).
type ExceptionHandlerFactory func(err error) (ExceptionHandler, bool)
