// Command lamp is a demo embedder: it registers the scenarios named in
// the framework's worked examples (overload resolution, enum-vs-numeric
// priority, cooldowns, suggestions, and an orphan command) against a built
// Lamp instance, then dispatches a single line of input from argv the way
// a chat-bot or CLI plugin host would. A cobra root with small, focused
// subcommands.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/aledsdavies/lamp"
	"github.com/aledsdavies/lamp/annotation"
	"github.com/aledsdavies/lamp/cmderrors"
	"github.com/aledsdavies/lamp/cooldown"
	"github.com/aledsdavies/lamp/ingest"
	"github.com/aledsdavies/lamp/stream"
	"github.com/aledsdavies/lamp/types"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var asActor string

var rootCmd = &cobra.Command{
	Use:   "lamp",
	Short: "Demo embedder for the lamp dispatch core",
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <input...>",
	Short: "Dispatch a line of input as the --as actor",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDispatch,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <input...>",
	Short: "List completions for a line of input",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

var suggestCursor int

func init() {
	rootCmd.PersistentFlags().StringVar(&asActor, "as", "alice", "actor identity to dispatch/suggest as")
	suggestCmd.Flags().IntVar(&suggestCursor, "cursor", -1, "rune offset to suggest at (default: end of input)")
	rootCmd.AddCommand(dispatchCmd, suggestCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	lp, directory := newDemoLamp()
	actor := directory.actorFor(asActor)
	raw := strings.Join(args, " ")

	out, failures, err := lp.Dispatch(actor, raw)
	if err != nil {
		return err
	}
	if out == nil {
		fmt.Fprintln(os.Stderr, "no match:")
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "  at %d: %s\n", f.Position, f.Err.Error())
		}
		return fmt.Errorf("unmatched input %q", raw)
	}
	if out.Err != nil {
		return out.Err
	}
	if out.Cancelled {
		fmt.Println("cancelled by hook")
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	lp, directory := newDemoLamp()
	actor := directory.actorFor(asActor)
	raw := strings.Join(args, " ")
	cursor := suggestCursor
	if cursor < 0 {
		cursor = len([]rune(raw))
	}
	for _, s := range lp.Suggestions(actor, raw, cursor) {
		fmt.Println(s)
	}
	return nil
}

// consoleActor is the demo Actor: identity plus stdout/stderr replies.
type consoleActor struct {
	name string
}

func (a *consoleActor) Identity() string { return a.name }
func (a *consoleActor) Reply(text string) {
	fmt.Printf("[%s] %s\n", a.name, text)
}
func (a *consoleActor) Error(text string) {
	fmt.Fprintf(os.Stderr, "[%s] error: %s\n", a.name, text)
}

// directory resolves actor names to Actors for the "greet <target>" and
// "teleport" scenarios, creating one on first mention so any name works.
type directory struct {
	known map[string]types.Actor
}

func newDirectory() *directory {
	d := &directory{known: make(map[string]types.Actor)}
	d.known["bob"] = &consoleActor{name: "bob"}
	d.known["alice"] = &consoleActor{name: "alice"}
	return d
}

func (d *directory) actorFor(name string) types.Actor {
	key := strings.ToLower(name)
	if a, ok := d.known[key]; ok {
		return a
	}
	a := &consoleActor{name: name}
	d.known[key] = a
	return a
}

func (d *directory) lookup(name string) (types.Actor, bool) {
	a, ok := d.known[strings.ToLower(name)]
	return a, ok
}

// Target is the parameter type for an actor name looked up against the
// directory (spec §8 scenario 1: "Input greet mallory with no such actor →
// failure InvalidValue").
type Target string

var targetType = reflect.TypeOf(Target(""))

type targetParameterType struct {
	dir *directory
}

func (p targetParameterType) Parse(s *stream.Stream, ctx *types.Context) (Target, error) {
	start := s.Position()
	tok := s.ReadUnquotedString()
	if tok == "" {
		return "", cmderrors.New(cmderrors.KindMissingArgument)
	}
	if _, ok := p.dir.lookup(tok); !ok {
		s.SetPosition(start)
		return "", cmderrors.InvalidValue("target", tok, "no such actor", start)
	}
	return Target(tok), nil
}

// ModeEnum is the enum-vs-numeric overload parameter from spec §8 scenario
// 3, matched case-insensitively and at highest priority so it is tried
// before the numeric overload.
type ModeEnum string

var modeEnumType = reflect.TypeOf(ModeEnum(""))
var modeVariants = []string{"fast", "slow"}

type modeParameterType struct{}

func (modeParameterType) Parse(s *stream.Stream, ctx *types.Context) (ModeEnum, error) {
	start := s.Position()
	tok := s.ReadUnquotedString()
	folded := strings.ToLower(tok)
	for _, v := range modeVariants {
		if folded == v {
			return ModeEnum(v), nil
		}
	}
	s.SetPosition(start)
	return "", cmderrors.InvalidEnum(tok, modeVariants, start)
}

func (modeParameterType) ParsePriority() types.Priority { return types.PriorityHighest }

// newDemoLamp builds a Lamp with every scenario from spec §8 registered:
// the greet overloads, the four-overload teleport set, the mode
// enum-vs-numeric pair, a 3-second-cooldown foo, the quest suggestion
// fixture, and the buzz orphan with its bar subcommand.
func newDemoLamp() (*lamp.Lamp, *directory) {
	dir := newDirectory()
	builder := lamp.NewBuilder()

	builder.Registries().ParameterTypes.Add(func(t reflect.Type, _ types.AnnotationList) (types.Parser, bool) {
		if t != targetType {
			return nil, false
		}
		return types.Adapt[Target](targetParameterType{dir: dir}), true
	})
	builder.Registries().ParameterTypes.Add(func(t reflect.Type, _ types.AnnotationList) (types.Parser, bool) {
		if t != modeEnumType {
			return nil, false
		}
		return types.Adapt[ModeEnum](modeParameterType{}), true
	})

	lp := builder.Build()
	registerGreet(lp, dir)
	registerTeleport(lp)
	registerMode(lp)
	registerFoo(lp)
	registerQuest(lp)
	registerBuzz(lp)
	return lp, dir
}

func param(name string, t reflect.Type) ingest.ParamSpec {
	return ingest.ParamSpec{Name: name, Type: t, Annotations: annotation.Empty()}
}

func mustRegister(lp *lamp.Lamp, decl ingest.Declaration) {
	if err := lp.Register(decl); err != nil {
		panic(err)
	}
}

// registerGreet wires spec §8 scenario 1: a bare greet replies to the
// dispatching actor; greet <target> replies to the named target.
func registerGreet(lp *lamp.Lamp, dir *directory) {
	mustRegister(lp, ingest.Declaration{
		PathGroups: [][]string{{"greet"}},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("Hello, %s!", ctx.Actor.Identity()))
			return nil, nil
		},
	})
	mustRegister(lp, ingest.Declaration{
		PathGroups:  [][]string{{"greet"}, {"<target>"}},
		Params:      []ingest.ParamSpec{param("target", targetType)},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			target := args[0].(Target)
			if recipient, ok := dir.lookup(string(target)); ok {
				recipient.Reply(fmt.Sprintf("Welcome, %s!", target))
			}
			return nil, nil
		},
	})
}

// registerTeleport wires spec §8 scenario 2's four overloads.
func registerTeleport(lp *lamp.Lamp) {
	float64Type := reflect.TypeOf(float64(0))

	mustRegister(lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<x>"}, {"<y>"}, {"<z>"}},
		Params: []ingest.ParamSpec{
			param("x", float64Type), param("y", float64Type), param("z", float64Type),
		},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			x, y, z := args[0].(float64), args[1].(float64), args[2].(float64)
			ctx.Actor.Reply(fmt.Sprintf("teleported to (%.1f,%.1f,%.1f)", x, y, z))
			return nil, nil
		},
	})
	mustRegister(lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<target>"}, {"<x>"}, {"<y>"}, {"<z>"}},
		Params: []ingest.ParamSpec{
			param("target", targetType), param("x", float64Type), param("y", float64Type), param("z", float64Type),
		},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			target := args[0].(Target)
			x, y, z := args[1].(float64), args[2].(float64), args[3].(float64)
			ctx.Actor.Reply(fmt.Sprintf("teleported %s to (%.1f,%.1f,%.1f)", target, x, y, z))
			return nil, nil
		},
	})
	mustRegister(lp, ingest.Declaration{
		PathGroups: [][]string{{"teleport"}, {"<target>"}, {"here"}},
		Params:     []ingest.ParamSpec{param("target", targetType)},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			target := args[0].(Target)
			ctx.Actor.Reply(fmt.Sprintf("teleported %s here", target))
			return nil, nil
		},
	})
	mustRegister(lp, ingest.Declaration{
		PathGroups:  [][]string{{"teleport"}, {"<to>"}},
		Params:      []ingest.ParamSpec{param("to", targetType)},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			to := args[0].(Target)
			ctx.Actor.Reply(fmt.Sprintf("teleported self to %s", to))
			return nil, nil
		},
	})
}

// registerMode wires spec §8 scenario 3: enum beats numeric on a matching
// token, numeric is the only branch left standing on a non-matching one.
func registerMode(lp *lamp.Lamp) {
	int32Type := reflect.TypeOf(int32(0))

	mustRegister(lp, ingest.Declaration{
		PathGroups:  [][]string{{"mode"}, {"<m>"}},
		Params:      []ingest.ParamSpec{param("m", modeEnumType)},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("mode set to %s", args[0].(ModeEnum)))
			return nil, nil
		},
	})
	mustRegister(lp, ingest.Declaration{
		PathGroups:  [][]string{{"mode"}, {"<n>"}},
		Params:      []ingest.ParamSpec{param("n", int32Type)},
		Annotations: annotation.Empty(),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply(fmt.Sprintf("mode set to level %d", args[0].(int32)))
			return nil, nil
		},
	})
}

// registerFoo wires spec §8 scenario 4: a 3-second cooldown, gated by the
// store before the handler runs and committed automatically on success.
func registerFoo(lp *lamp.Lamp) {
	handleType := reflect.TypeOf((*cooldown.Handle)(nil))
	mustRegister(lp, ingest.Declaration{
		PathGroups:  [][]string{{"foo"}},
		Params:      []ingest.ParamSpec{param("cd", handleType)},
		Annotations: annotation.Of(cooldown.Annotation{Duration: 3 * time.Second}),
		Handler: func(ctx *types.Context, args []any) (any, error) {
			ctx.Actor.Reply("foo executed")
			return nil, nil
		},
	})
}

// registerQuest wires spec §8 scenario 5's suggestion fixture: four
// sibling literals under "quest", registered in the order the example's
// insertion-order assertion expects.
func registerQuest(lp *lamp.Lamp) {
	for _, name := range []string{"create", "delete", "start", "clear"} {
		name := name
		mustRegister(lp, ingest.Declaration{
			PathGroups:  [][]string{{"quest"}, {name}},
			Annotations: annotation.Empty(),
			Handler: func(ctx *types.Context, args []any) (any, error) {
				ctx.Actor.Reply(fmt.Sprintf("quest %s", name))
				return nil, nil
			},
		})
	}
}

// registerBuzz wires spec §8 scenario 6: an orphan command bound to "buzz"
// at registration time, with a bar subcommand and a placeholder-bound
// entry handler for the bare path.
func registerBuzz(lp *lamp.Lamp) {
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
	if err := lp.RegisterOrphan(entry, "buzz"); err != nil {
		panic(err)
	}
	if err := lp.RegisterOrphan(bar, "buzz"); err != nil {
		panic(err)
	}
}
