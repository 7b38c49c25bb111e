package dispatch

import (
	"fmt"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/cooldown"
	"github.com/aledsdavies/lamp/hooks"
	"github.com/aledsdavies/lamp/registry"
	"github.com/aledsdavies/lamp/types"
)

// Outcome is the terminal result of one Execute call (spec §4.F "Dispatch
// outcome").
type Outcome struct {
	Value     any
	Err       error
	Cancelled bool
}

// Execute runs the full post-selection pipeline for candidate (spec §4.D
// execution steps a-g): permission and cooldown gates, per-argument
// validators, the pre-execution hook chain, the panic-recovered handler
// invocation, response handling, and the annotation-driven automatic
// cooldown commit on success.
func Execute(candidate *Candidate, ctx *types.Context, regs *types.Registries, chains *hooks.Chains, store *cooldown.Store) (out Outcome) {
	leaf := candidate.Leaf
	ctx.CommandID = leaf.ID
	for name, value := range candidate.Args {
		ctx.SetArg(name, value)
	}

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: cmderrors.Generic(fmt.Sprintf("panic in handler: %v", r))}
		}
	}()

	for _, cond := range leaf.Conditions {
		if err := cond.Evaluate(ctx); err != nil {
			return Outcome{Err: err}
		}
	}

	if !leaf.Permission.Test(ctx.Actor) {
		return Outcome{Err: cmderrors.NoPermission(leaf.Permission.String())}
	}

	key := cooldown.MakeKey(leaf.ID, ctx.Actor.Identity())
	if remaining, onCooldown := store.Remaining(key); onCooldown {
		return Outcome{Err: cmderrors.OnCooldown(remaining.String())}
	}

	for _, desc := range leaf.Parameters {
		value, ok := candidate.Args[desc.Name]
		if !ok {
			continue
		}
		validators, found := registry.Resolve(regs.Validators, func(f types.ValidatorFactory) ([]types.ValidatorFunc, bool) {
			return f(desc.Type, desc.Annotations)
		})
		if !found {
			continue
		}
		for _, v := range validators {
			if err := v(value, ctx); err != nil {
				return Outcome{Err: err}
			}
		}
	}

	if chains.FireExecuted(leaf, ctx) {
		return Outcome{Cancelled: true}
	}

	args := make([]any, len(leaf.Parameters))
	for i, desc := range leaf.Parameters {
		if value, ok := candidate.Args[desc.Name]; ok {
			args[i] = value
			continue
		}
		resolver, ok := leaf.ContextResolvers[desc.Name]
		if !ok {
			return Outcome{Err: cmderrors.Generic(fmt.Sprintf("unresolved parameter %q", desc.Name))}
		}
		value, err := resolver.ResolveAny(ctx)
		if err != nil {
			return Outcome{Err: err}
		}
		args[i] = value
	}

	result, err := leaf.Handler(ctx, args)
	if err != nil {
		return Outcome{Err: err}
	}

	if leaf.ResponseHandler != nil {
		if err := leaf.ResponseHandler(ctx, result); err != nil {
			return Outcome{Value: result, Err: err}
		}
	}

	if ann, ok := annotation.Lookup[cooldown.Annotation](leaf.Annotations); ok {
		store.Set(key, ann.Duration)
	}

	return Outcome{Value: result}
}
