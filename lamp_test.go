package lamp_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/aledsdavies/lamp"
	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/cooldown"
	"github.com/aledsdavies/lamp/ingest"
	"github.com/aledsdavies/lamp/stream"
	"github.com/aledsdavies/lamp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingActor captures every reply/error so a test can assert on what
// a scenario told the actor, instead of printing to stdout like the demo
// CLI's consoleActor does.
type recordingActor struct {
	name     string
	replies  []string
	errs     []string
}

func (a *recordingActor) Identity() string    { return a.name }
func (a *recordingActor) Reply(text string)   { a.replies = append(a.replies, text) }
func (a *recordingActor) Error(text string)   { a.errs = append(a.errs, text) }

type target string

var targetType = reflect.TypeOf(target(""))

type targetParser struct{ known map[string]bool }

func (p targetParser) Parse(s *stream.Stream, ctx *types.Context) (target, error) {
	start := s.Position()
	tok := s.ReadUnquotedString()
	if tok == "" {
		return "", cmderrors.New(cmderrors.KindMissingArgument)
	}
	if !p.known[tok] {
		s.SetPosition(start)
		return "", cmderrors.InvalidValue("target", tok, "no such actor", start)
	}
	return target(tok), nil
}

type modeEnum string

var modeEnumType = reflect.TypeOf(modeEnum(""))
var modeVariants = []string{"fast", "slow"}

type modeParser struct{}

func (modeParser) Parse(s *stream.Stream, ctx *types.Context) (modeEnum, error) {
	start := s.Position()
	tok := s.ReadUnquotedString()
	for _, v := range modeVariants {
		if v == tok {
			return modeEnum(v), nil
		}
	}
	s.SetPosition(start)
	return "", cmderrors.InvalidEnum(tok, modeVariants, start)
}
func (modeParser) ParsePriority() types.Priority { return types.PriorityHighest }

func param(name string, t reflect.Type) ingest.ParamSpec {
	return ingest.ParamSpec{Name: name, Type: t, Annotations: annotation.Empty()}
}

func mustRegister(t *testing.T, lp *lamp.Lamp, decl ingest.Declaration) {
	t.Helper()
	require.NoError(t, lp.Register(decl))
}

func buildScenarioLamp(t *testing.T) *lamp.Lamp {
	t.Helper()
	builder := lamp.NewBuilder()
	builder.Registries().ParameterTypes.Add(func(rt reflect.Type, _ types.AnnotationList) (types.Parser, bool) {
		if rt != targetType {
			return nil, false
		}
		return types.Adapt[target](targetParser{known: map[string]bool{"bob": true, "alice": true}}), true
	})
	builder.Registries().ParameterTypes.Add(func(rt reflect.Type, _ types.AnnotationList) (types.Parser, bool) {
		if rt != modeEnumType {
			return nil, false
		}
		return types.Adapt[modeEnum](modeParser{}), true
	})
	lp := builder.Build()

	float64Type := reflect.TypeOf(float64(0))
	int32Type := reflect.TypeOf(int32(0))
	handleType := reflect.TypeOf((*cooldown.Handle)(nil))

	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"greet"}},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("Hello, %s!", ctx.Actor.Identity()))
			return nil, nil
		},
	})
	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"greet"}, {"<target>"}},
		Params:     []ingest.ParamSpec{param("target", targetType)},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("greeted %s", args[0].(target)))
			return nil, nil
		},
	})

	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<x>"}, {"<y>"}, {"<z>"}},
		Params:     []ingest.ParamSpec{param("x", float64Type), param("y", float64Type), param("z", float64Type)},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply("teleported self by coordinates")
			return nil, nil
		},
	})
	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<target>"}, {"<x>"}, {"<y>"}, {"<z>"}},
		Params: []ingest.ParamSpec{
			param("target", targetType), param("x", float64Type), param("y", float64Type), param("z", float64Type),
		},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("teleported %s by coordinates", args[0].(target)))
			return nil, nil
		},
	})
	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<target>"}, {"here"}},
		Params:     []ingest.ParamSpec{param("target", targetType)},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("teleported %s here", args[0].(target)))
			return nil, nil
		},
	})
	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<to>"}},
		Params:     []ingest.ParamSpec{param("to", targetType)},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("teleported self to %s", args[0].(target)))
			return nil, nil
		},
	})

	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"mode"}, {"<m>"}},
		Params:     []ingest.ParamSpec{param("m", modeEnumType)},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("mode set to %s", args[0].(modeEnum)))
			return nil, nil
		},
	})
	mustRegister(t, lp, ingest.Declaration{
		PathGroups: [][]string{{"mode"}, {"<n>"}},
		Params:     []ingest.ParamSpec{param("n", int32Type)},
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("mode set to level %d", args[0].(int32)))
			return nil, nil
		},
	})

	mustRegister(t, lp, ingest.Declaration{
		PathGroups:  [][]string{{"foo"}},
		Params:      []ingest.ParamSpec{param("cd", handleType)},
		Annotations: annotation.Of(cooldown.Annotation{Duration: 3 * time.Second}),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply("foo executed")
			return nil, nil
		},
	})

	for _, name := range []string{"create", "delete", "start", "clear"} {
		name := name
		mustRegister(t, lp, ingest.Declaration{
			PathGroups: [][]string{{"quest"}, {name}},
			Handler: func(ctx *types.Context, args []any) (any, error) {
				ctx.Actor.Reply(fmt.Sprintf("quest %s", name))
				return nil, nil
			},
		})
	}

	entry := ingest.Declaration{
		Annotations: annotation.Of(ingest.OrphanPath{}),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply("buzz entry")
			return nil, nil
		},
	}
	bar := ingest.Declaration{
		PathGroups:  [][]string{{"bar"}},
		Annotations: annotation.Of(ingest.OrphanPath{}),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply("buzz bar")
			return nil, nil
		},
	}
	require.NoError(t, lp.RegisterOrphan(entry, "buzz"))
	require.NoError(t, lp.RegisterOrphan(bar, "buzz"))

	return lp
}

func dispatch(t *testing.T, lp *lamp.Lamp, actor *recordingActor, raw string) *lamp.Lamp {
	t.Helper()
	_, _, err := lp.Dispatch(actor, raw)
	require.NoError(t, err)
	return lp
}

func TestGreetBareRepliesToDispatchingActor(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "greet")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "Hello, alice!", alice.replies[0])
}

func TestGreetTargetRepliesNamingTheTarget(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "greet bob")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "greeted bob", alice.replies[0])
}

func TestGreetUnknownTargetFailsDispatch(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	out, failures, err := lp.Dispatch(alice, "greet mallory")
	require.NoError(t, err)
	assert.Nil(t, out)
	require.NotEmpty(t, failures)
}

func TestTeleportPicksFourArgOverloadWhenFirstTokenIsATarget(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "teleport bob 1 2 3")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "teleported bob by coordinates", alice.replies[0])
}

func TestTeleportSingleTokenUsesToOverload(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "teleport bob")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "teleported self to bob", alice.replies[0])
}

func TestTeleportTargetHereOverload(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "teleport bob here")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "teleported bob here", alice.replies[0])
}

func TestModeEnumBeatsNumericOnMatchingToken(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "mode fast")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "mode set to fast", alice.replies[0])
}

func TestModeFallsBackToNumericOnNonMatchingToken(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	dispatch(t, lp, alice, "mode 7")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "mode set to level 7", alice.replies[0])
}

func TestFooEntersCooldownAfterSuccessfulDispatch(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}

	out1, _, err := lp.Dispatch(alice, "foo")
	require.NoError(t, err)
	require.NotNil(t, out1)
	require.NoError(t, out1.Err)

	out2, _, err := lp.Dispatch(alice, "foo")
	require.NoError(t, err)
	require.NotNil(t, out2)
	require.Error(t, out2.Err)
	var ce *cmderrors.CommandError
	require.ErrorAs(t, out2.Err, &ce)
	assert.Equal(t, cmderrors.KindOnCooldown, ce.Kind)
}

func TestQuestSuggestionsPreserveRegistrationOrder(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}
	out := lp.Suggestions(alice, "quest ", len("quest "))
	assert.Equal(t, []string{"create", "delete", "start", "clear"}, out)
}

func TestBuzzOrphanEntryAndSubcommandDispatch(t *testing.T) {
	lp := buildScenarioLamp(t)
	alice := &recordingActor{name: "alice"}

	dispatch(t, lp, alice, "buzz")
	require.Len(t, alice.replies, 1)
	assert.Equal(t, "buzz entry", alice.replies[0])

	dispatch(t, lp, alice, "buzz bar")
	require.Len(t, alice.replies, 2)
	assert.Equal(t, "buzz bar", alice.replies[1])
}
