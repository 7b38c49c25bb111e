package types

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Context is the per-dispatch ExecutionContext (spec §3 "Lifecycles"):
// created per dispatch, holds the actor and parsed arguments by name, and
// is dropped after dispatch completes. It is passed to every parser,
// validator, condition, and response handler invoked during that dispatch.
type Context struct {
	Actor Actor
	Raw   string
	ID    uuid.UUID

	// CommandID is the ExecutableCommand being dispatched, set by the
	// dispatcher once a candidate is selected. Context parameters that key
	// off the command identity (the cooldown handle) read it here rather
	// than taking the leaf as an explicit argument.
	CommandID uuid.UUID

	// Args holds the selected candidate's parsed values by parameter name.
	// The dispatcher fills it before conditions run, so conditions,
	// validators and the handler can read them by name.
	Args map[string]any

	Logger *zerolog.Logger
}

// NewContext creates an ExecutionContext for one dispatch.
func NewContext(actor Actor, raw string, logger *zerolog.Logger) *Context {
	if logger == nil {
		discard := zerolog.Nop()
		logger = &discard
	}
	return &Context{
		Actor:  actor,
		Raw:    raw,
		ID:     uuid.New(),
		Args:   make(map[string]any),
		Logger: logger,
	}
}

// Arg fetches a previously-resolved argument by parameter name.
func (c *Context) Arg(name string) (any, bool) {
	v, ok := c.Args[name]
	return v, ok
}

// SetArg records a resolved argument value under its parameter name.
func (c *Context) SetArg(name string, value any) {
	c.Args[name] = value
}
