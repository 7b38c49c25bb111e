package dispatch_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/cooldown"
	"github.com/aledsdavies/lamp/dispatch"
	"github.com/aledsdavies/lamp/hooks"
	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaf() *tree.ExecutableCommand {
	l := leaf("ping")
	l.Permission = types.AllowAll{}
	l.Handler = func(ctx *types.Context, args []any) (any, error) {
		return "pong", nil
	}
	return l
}

func execEnv() (*types.Registries, *hooks.Chains, *cooldown.Store) {
	return types.NewRegistries(), hooks.NewChains(), cooldown.NewStore()
}

func TestExecuteRunsHandlerAndReturnsValue(t *testing.T) {
	l := newTestLeaf()
	regs, chains, store := execEnv()
	ctx := newCtx("ping")

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, ctx, regs, chains, store)
	require.NoError(t, out.Err)
	assert.Equal(t, "pong", out.Value)
}

func TestExecuteRejectsWhenPermissionDenied(t *testing.T) {
	l := newTestLeaf()
	l.Permission = denyAll{}
	regs, chains, store := execEnv()

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, newCtx("ping"), regs, chains, store)
	require.Error(t, out.Err)
	var ce *cmderrors.CommandError
	require.ErrorAs(t, out.Err, &ce)
	assert.Equal(t, cmderrors.KindNoPermission, ce.Kind)
}

func TestExecuteRejectsWhenOnCooldown(t *testing.T) {
	l := newTestLeaf()
	regs, chains, store := execEnv()
	key := cooldown.MakeKey(l.ID, "alice")
	store.Set(key, time.Minute)

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, newCtx("ping"), regs, chains, store)
	require.Error(t, out.Err)
	var ce *cmderrors.CommandError
	require.ErrorAs(t, out.Err, &ce)
	assert.Equal(t, cmderrors.KindOnCooldown, ce.Kind)
}

func TestExecuteStopsWhenConditionFails(t *testing.T) {
	l := newTestLeaf()
	refused := cmderrors.Generic("not allowed right now")
	l.Conditions = []types.Condition{
		types.ConditionFunc(func(ctx *types.Context) error { return refused }),
	}
	regs, chains, store := execEnv()

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, newCtx("ping"), regs, chains, store)
	assert.Equal(t, refused, out.Err)
}

func TestExecuteCancelledByExecutedHook(t *testing.T) {
	l := newTestLeaf()
	regs, chains, store := execEnv()
	chains.OnExecuted(func(cmd *tree.ExecutableCommand, ctx *types.Context, cancel *hooks.CancelHandle) {
		cancel.Cancel()
	})

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, newCtx("ping"), regs, chains, store)
	assert.True(t, out.Cancelled)
	assert.NoError(t, out.Err)
}

func TestExecuteRecoversFromHandlerPanic(t *testing.T) {
	l := newTestLeaf()
	l.Handler = func(ctx *types.Context, args []any) (any, error) {
		panic("boom")
	}
	regs, chains, store := execEnv()

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, newCtx("ping"), regs, chains, store)
	require.Error(t, out.Err)
}

func TestExecuteRunsValidatorAndRejectsInvalidValue(t *testing.T) {
	l := newTestLeaf()
	stringType := reflect.TypeOf("")
	l.Parameters = []tree.ParameterDescriptor{{Name: "name", Type: stringType}}
	regs, chains, store := execEnv()
	regs.Validators.Add(func(t reflect.Type, anns types.AnnotationList) ([]types.ValidatorFunc, bool) {
		if t != stringType {
			return nil, false
		}
		return []types.ValidatorFunc{func(value any, ctx *types.Context) error {
			return cmderrors.InvalidValue("name", value.(string), "must not be empty", 0)
		}}, true
	})

	candidate := &dispatch.Candidate{Leaf: l, Args: map[string]any{"name": ""}}
	out := dispatch.Execute(candidate, newCtx("ping"), regs, chains, store)
	require.Error(t, out.Err)
	var ce *cmderrors.CommandError
	require.ErrorAs(t, out.Err, &ce)
	assert.Equal(t, cmderrors.KindInvalidValue, ce.Kind)
}

func TestExecuteCommitsAnnotatedCooldownOnSuccess(t *testing.T) {
	l := newTestLeaf()
	l.Annotations = annotation.Of(cooldown.Annotation{Duration: time.Minute})
	regs, chains, store := execEnv()

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l}, newCtx("ping"), regs, chains, store)
	require.NoError(t, out.Err)

	key := cooldown.MakeKey(l.ID, "alice")
	_, onCooldown := store.Remaining(key)
	assert.True(t, onCooldown)
}

func TestExecuteResolvesContextParameterWhenNotInArgs(t *testing.T) {
	l := newTestLeaf()
	handleType := reflect.TypeOf((*cooldown.Handle)(nil))
	l.Parameters = []tree.ParameterDescriptor{{Name: "handle", Type: handleType}}
	l.ContextResolvers = map[string]types.ContextParameterResolver{
		"handle": stubResolver{val: "resolved"},
	}
	var got any
	l.Handler = func(ctx *types.Context, args []any) (any, error) {
		got = args[0]
		return nil, nil
	}
	regs, chains, store := execEnv()

	out := dispatch.Execute(&dispatch.Candidate{Leaf: l, Args: map[string]any{}}, newCtx("ping"), regs, chains, store)
	require.NoError(t, out.Err)
	assert.Equal(t, "resolved", got)
}

type denyAll struct{}

func (denyAll) Test(types.Actor) bool { return false }
func (denyAll) String() string        { return "deny-all" }

type stubResolver struct{ val any }

func (r stubResolver) ResolveAny(ctx *types.Context) (any, error) { return r.val, nil }
