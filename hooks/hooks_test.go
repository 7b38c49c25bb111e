package hooks_test

import (
	"testing"

	"github.com/aledsdavies/lamp/hooks"
	"github.com/aledsdavies/lamp/tree"
	"github.com/aledsdavies/lamp/types"
	"github.com/stretchr/testify/assert"
)

func TestFireRegisteredRunsHooksInOrder(t *testing.T) {
	c := hooks.NewChains()
	var order []int
	c.OnRegistered(func(cmd *tree.ExecutableCommand, cancel *hooks.CancelHandle) { order = append(order, 1) })
	c.OnRegistered(func(cmd *tree.ExecutableCommand, cancel *hooks.CancelHandle) { order = append(order, 2) })

	cancelled := c.FireRegistered(&tree.ExecutableCommand{})
	assert.False(t, cancelled)
	assert.Equal(t, []int{1, 2}, order)
}

func TestCancelHandleIsIdempotentAndLatches(t *testing.T) {
	h := &hooks.CancelHandle{}
	assert.False(t, h.WasCancelled())
	h.Cancel()
	h.Cancel()
	assert.True(t, h.WasCancelled())
}

func TestFireRegisteredLaterHooksStillRunAfterCancellation(t *testing.T) {
	c := hooks.NewChains()
	var secondRan bool
	var sawCancelled bool
	c.OnRegistered(func(cmd *tree.ExecutableCommand, cancel *hooks.CancelHandle) { cancel.Cancel() })
	c.OnRegistered(func(cmd *tree.ExecutableCommand, cancel *hooks.CancelHandle) {
		secondRan = true
		sawCancelled = cancel.WasCancelled()
	})

	cancelled := c.FireRegistered(&tree.ExecutableCommand{})
	assert.True(t, cancelled)
	assert.True(t, secondRan)
	assert.True(t, sawCancelled)
}

func TestFireExecutedPassesContextThrough(t *testing.T) {
	c := hooks.NewChains()
	var gotCtx *types.Context
	ctx := types.NewContext(fakeActor{name: "alice"}, "ping", nil)
	c.OnExecuted(func(cmd *tree.ExecutableCommand, ctx *types.Context, cancel *hooks.CancelHandle) {
		gotCtx = ctx
	})

	c.FireExecuted(&tree.ExecutableCommand{}, ctx)
	assert.Same(t, ctx, gotCtx)
}

func TestFireUnregisteredReportsCancellation(t *testing.T) {
	c := hooks.NewChains()
	c.OnUnregistered(func(cmd *tree.ExecutableCommand, cancel *hooks.CancelHandle) { cancel.Cancel() })

	assert.True(t, c.FireUnregistered(&tree.ExecutableCommand{}))
}

type fakeActor struct{ name string }

func (a fakeActor) Identity() string { return a.name }
func (a fakeActor) Reply(string)      {}
func (a fakeActor) Error(string)      {}
