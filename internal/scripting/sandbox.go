// Package scripting provides a sandboxed GopherLua environment for
// user-supplied battle policies.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one policy call when none is configured.
const DefaultInstructionLimit = 100_000

// unsafeGlobals are removed from every sandboxed state after OpenBase.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// opcodeBudget is a context that cancels itself once Done has been polled
// limit times. GopherLua polls Done once per executed opcode.
type opcodeBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opcodeBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// newOpcodeBudget returns a budget of limit opcodes.
//
// Precondition: limit > 0.
func newOpcodeBudget(limit int) *opcodeBudget {
	b := &opcodeBudget{}
	b.Context, b.cancel = context.WithCancel(context.Background())
	b.left.Store(int64(limit))
	return b
}

// NewSandboxedState returns an LState with only the base, table, string, and math
// libraries open and the unsafe base globals removed.
//
// Postcondition: The caller owns the LState and must Close it. Code should be run
// through RunString or runLimited so every execution is opcode-limited.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// runLimited runs fn with a fresh budget of limit opcodes installed on L.
// A limit <= 0 uses DefaultInstructionLimit.
func runLimited(L *lua.LState, limit int, fn func() error) error {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	budget := newOpcodeBudget(limit)
	defer budget.cancel()
	L.SetContext(budget)
	defer L.RemoveContext()
	return fn()
}

// RunString executes src in L under an opcode limit.
//
// Postcondition: Returns a non-nil error on a Lua error or when the budget is spent.
func RunString(L *lua.LState, src string, limit int) error {
	return runLimited(L, limit, func() error { return L.DoString(src) })
}
