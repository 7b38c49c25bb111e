// Package lamp is the embedder-facing entry point: Builder assembles the
// registries, hook chains, and cooldown store; Build freezes them into a
// Lamp that accepts declarations, dispatches raw input, and answers
// suggestion queries (spec §2 "System overview", §3 "Lifecycles"). It
// mirrors the teacher's top-level package — a thin orchestration layer
// over the internal packages that do the actual work.
package lamp

import (
	"fmt"
	"reflect"
	"time"

	"github.com/aledsdavies/lamp/cooldown"
	"github.com/aledsdavies/lamp/dispatch"
	"github.com/aledsdavies/lamp/hooks"
	"github.com/aledsdavies/lamp/ingest"
	"github.com/aledsdavies/lamp/orphan"
	"github.com/aledsdavies/lamp/params"
	"github.com/aledsdavies/lamp/suggest"
	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
	"github.com/rs/zerolog"
)

// Builder accumulates registries, hook chains, and configuration before
// Build freezes them into a Lamp. Mirrors the teacher's planner-builder
// split: registration happens against the Builder, execution against the
// built value.
type Builder struct {
	regs      *types.Registries
	hooks     *hooks.Chains
	cooldowns *cooldown.Store
	logger    *zerolog.Logger
	config    BuildConfig
}

// NewBuilder creates a Builder with the framework's built-in context
// parameters (actor, logger, cooldown handle) and default parameter types
// already registered.
func NewBuilder() *Builder {
	regs := types.NewRegistries()
	params.RegisterDefaults(regs)

	b := &Builder{
		regs:      regs,
		hooks:     hooks.NewChains(),
		cooldowns: cooldown.NewStore(),
		config:    DefaultBuildConfig(),
	}
	b.registerBuiltinContextParameters()
	return b
}

// WithConfig overrides the default BuildConfig.
func (b *Builder) WithConfig(cfg BuildConfig) *Builder {
	b.config = cfg
	return b
}

// WithLogger attaches a logger propagated into every dispatch Context.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// Registries exposes the builder's registries so an embedder can install
// its own parameter types, permissions, conditions, validators, response
// handlers, and exception handlers before Build.
func (b *Builder) Registries() *types.Registries { return b.regs }

// Hooks exposes the builder's hook chains so an embedder can register
// on-registered/on-unregistered/on-executed observers before Build.
func (b *Builder) Hooks() *hooks.Chains { return b.hooks }

// Build freezes the accumulated registries and chains into a Lamp backed
// by a fresh, empty command tree.
func (b *Builder) Build() *Lamp {
	tree.SetCaseSensitive(b.config.CaseSensitiveLiterals)
	return &Lamp{
		tree:      tree.New(),
		regs:      b.regs,
		chains:    b.hooks,
		cooldowns: b.cooldowns,
		guard:     dispatch.NewGuard(b.config.MaxReentrancyDepth),
		config:    b.config,
		logger:    b.logger,
	}
}

// registerBuiltinContextParameters installs the three context parameters
// every embedder gets for free: the dispatching Actor, the configured
// logger, and a per-invocation cooldown Handle bound to the method's
// cooldown.Annotation, if any (spec §4.B "built-in context parameters").
func (b *Builder) registerBuiltinContextParameters() {
	actorType := reflect.TypeOf((*types.Actor)(nil)).Elem()
	loggerType := reflect.TypeOf((*zerolog.Logger)(nil))
	handleType := reflect.TypeOf((*cooldown.Handle)(nil))

	b.regs.ContextParameters.Add(func(t reflect.Type, _ types.AnnotationList) (types.ContextParameterResolver, bool) {
		if t == nil || !t.Implements(actorType) {
			return nil, false
		}
		return actorResolver{}, true
	})

	b.regs.ContextParameters.Add(func(t reflect.Type, _ types.AnnotationList) (types.ContextParameterResolver, bool) {
		if t != loggerType {
			return nil, false
		}
		return loggerResolver{}, true
	})

	store := b.cooldowns
	b.regs.ContextParameters.Add(func(t reflect.Type, anns types.AnnotationList) (types.ContextParameterResolver, bool) {
		if t != handleType {
			return nil, false
		}
		var bound *time.Duration
		if ann, ok := anns.Get(cooldownAnnotationKind); ok {
			if a, ok := ann.(cooldown.Annotation); ok {
				d := a.Duration
				bound = &d
			}
		}
		return cooldownResolver{store: store, bound: bound}, true
	})
}

var cooldownAnnotationKind = reflect.TypeOf(cooldown.Annotation{})

// actorResolver resolves the dispatching Actor straight from the Context.
type actorResolver struct{}

func (actorResolver) ResolveAny(ctx *types.Context) (any, error) {
	return ctx.Actor, nil
}

// loggerResolver resolves the dispatch-scoped logger straight from the
// Context.
type loggerResolver struct{}

func (loggerResolver) ResolveAny(ctx *types.Context) (any, error) {
	return ctx.Logger, nil
}

// cooldownResolver builds a *cooldown.Handle keyed by the command being
// dispatched and the invoking actor, bound to the method's annotated
// duration if it declared one.
type cooldownResolver struct {
	store *cooldown.Store
	bound *time.Duration
}

func (r cooldownResolver) ResolveAny(ctx *types.Context) (any, error) {
	key := cooldown.MakeKey(ctx.CommandID, ctx.Actor.Identity())
	return cooldown.NewHandle(r.store, key, r.bound), nil
}

// Lamp is the built framework instance: a command tree plus the resolved
// registries, hook chains, cooldown store, and reentrancy guard needed to
// register declarations and dispatch raw input against them (spec §2).
type Lamp struct {
	tree      *tree.Tree
	regs      *types.Registries
	chains    *hooks.Chains
	cooldowns *cooldown.Store
	guard     *dispatch.Guard
	config    BuildConfig
	logger    *zerolog.Logger
}

// Register expands decl into its path alternatives, resolves its
// parameters/permission/conditions/response-handler against the frozen
// registries, and fires the on-registered hook chain for each resulting
// leaf before inserting it into the command tree; a leaf whose chain
// cancels is not inserted.
func (l *Lamp) Register(decl ingest.Declaration) error {
	built, err := ingest.Build(decl, l.regs)
	if err != nil {
		return err
	}
	for _, b := range built {
		if l.chains.FireRegistered(b.Leaf) {
			continue
		}
		if err := l.tree.Insert(b.Segments, b.Leaf); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOrphan binds decl's runtime-supplied path alternatives, then
// registers it exactly as Register would (spec §4.H "Orphan commands").
func (l *Lamp) RegisterOrphan(decl ingest.Declaration, paths ...string) error {
	bound, err := orphan.Bind(decl, paths...)
	if err != nil {
		return err
	}
	return l.Register(bound)
}

// Unregister fires the on-unregistered hook chain for leaf, then removes
// it from the command tree unless a hook in the chain cancelled; a
// cancelled unregistration leaves the leaf registered.
func (l *Lamp) Unregister(leaf *tree.ExecutableCommand) {
	if l.chains.FireUnregistered(leaf) {
		return
	}
	l.tree.Unregister(leaf)
}

// Dispatch walks raw against the command tree for actor, guards against
// runaway reentrancy, and executes the best-ranked candidate, returning the
// structured failure list alongside a nil Outcome when nothing matched.
func (l *Lamp) Dispatch(actor types.Actor, raw string) (*dispatch.Outcome, []dispatch.Failure, error) {
	release, err := l.guard.Enter(actor.Identity())
	if err != nil {
		return nil, nil, err
	}
	defer release()

	ctx := types.NewContext(actor, raw, l.logger)

	var candidate *dispatch.Candidate
	var failures []dispatch.Failure
	l.tree.WithRead(func(root *tree.Node) {
		candidate, failures = dispatch.Walk(root, ctx, raw, l.config.MaxFailedAttempts)
	})
	if candidate == nil {
		return nil, failures, nil
	}

	out := dispatch.Execute(candidate, ctx, l.regs, l.chains, l.cooldowns)
	return &out, failures, nil
}

// Suggestions returns completions for raw truncated at cursor, for actor.
func (l *Lamp) Suggestions(actor types.Actor, raw string, cursor int) []string {
	ctx := types.NewContext(actor, raw, l.logger)
	var out []string
	l.tree.WithRead(func(root *tree.Node) {
		out = suggest.Suggestions(root, ctx, raw, cursor)
	})
	return out
}

// AllCommands returns every registered command, for help introspection.
func (l *Lamp) AllCommands() []*tree.ExecutableCommand {
	return l.tree.AllCommands()
}

// Tree exposes the underlying command tree directly, for embedders that
// need a raw read (e.g. the help package's Children/Siblings/Related).
func (l *Lamp) Tree() *tree.Tree { return l.tree }

func (l *Lamp) String() string {
	return fmt.Sprintf("lamp(commands=%d)", len(l.tree.AllCommands()))
}
