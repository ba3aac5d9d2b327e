package scripting

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/team"
)

// ChooseActionHook is the global function a policy script must define. It is
// called as choose_action(self, enemy) and must return "attack", "swap", or "special".
const ChooseActionHook = "choose_action"

// ErrMissingHook is returned when a policy script does not define ChooseActionHook.
var ErrMissingHook = errors.New("policy script does not define " + ChooseActionHook)

// PolicyOptions configure a script policy.
type PolicyOptions struct {
	// InstructionLimit caps opcodes per load and per call; 0 uses DefaultInstructionLimit.
	InstructionLimit int
	// Effectiveness backs battle.effectiveness; nil means creature.Neutral.
	Effectiveness creature.Effectiveness
	// Fallback decides whenever the script errors or returns an unknown action; nil means team.DefaultPolicy.
	Fallback team.Policy
	// Logger receives script errors at Warn; nil means no logging.
	Logger *zap.Logger
}

// Policy is a team.Policy backed by a sandboxed Lua script.
//
// Policy is safe for concurrent use; calls are serialized on the single LState.
type Policy struct {
	mu     sync.Mutex
	L      *lua.LState
	name   string
	limit  int
	opts   PolicyOptions
	logger *zap.Logger
}

// LoadPolicy reads the script at path and compiles it into a Policy.
//
// Precondition: path must be a readable Lua file.
// Postcondition: Returns a Policy whose script defines ChooseActionHook, or a non-nil error.
func LoadPolicy(path string, opts PolicyOptions) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading policy %q: %w", path, err)
	}
	return NewPolicy(path, string(data), opts)
}

// NewPolicy runs src in a fresh sandbox and returns a Policy calling its
// ChooseActionHook. name identifies the script in errors and logs.
//
// Postcondition: Returns a Policy or a non-nil error; the caller must Close the Policy.
func NewPolicy(name, src string, opts PolicyOptions) (*Policy, error) {
	if opts.Effectiveness == nil {
		opts.Effectiveness = creature.Neutral
	}
	if opts.Fallback == nil {
		opts.Fallback = team.DefaultPolicy{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("script", name))

	L := NewSandboxedState()
	registerModules(L, opts.Effectiveness, logger)
	if err := RunString(L, src, opts.InstructionLimit); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading policy %q: %w", name, err)
	}
	if _, ok := L.GetGlobal(ChooseActionHook).(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("scripting: policy %q: %w", name, ErrMissingHook)
	}
	return &Policy{L: L, name: name, limit: opts.InstructionLimit, opts: opts, logger: logger}, nil
}

// ChooseAction implements team.Policy. Script errors, exceeded instruction limits,
// and unrecognised return values are logged and answered by the fallback policy.
func (p *Policy) ChooseAction(self, enemy *creature.Creature) team.Action {
	action, err := p.call(self, enemy)
	if err != nil {
		p.logger.Warn("scripting: policy failed, using fallback",
			zap.String("self", self.Name()),
			zap.String("enemy", enemy.Name()),
			zap.Error(err),
		)
		return p.opts.Fallback.ChooseAction(self, enemy)
	}
	return action
}

func (p *Policy) call(self, enemy *creature.Creature) (team.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	L := p.L
	err := runLimited(L, p.limit, func() error {
		return L.CallByParam(lua.P{
			Fn:      L.GetGlobal(ChooseActionHook),
			NRet:    1,
			Protect: true,
		}, creatureTable(L, self), creatureTable(L, enemy))
	})
	if err != nil {
		return team.ActionUnknown, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return parseAction(ret)
}

func parseAction(v lua.LValue) (team.Action, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return team.ActionUnknown, fmt.Errorf("%s returned %s, want string", ChooseActionHook, v.Type())
	}
	switch strings.ToLower(string(s)) {
	case "attack":
		return team.ActionAttack, nil
	case "swap":
		return team.ActionSwap, nil
	case "special":
		return team.ActionSpecial, nil
	}
	return team.ActionUnknown, fmt.Errorf("%s returned unknown action %q", ChooseActionHook, string(s))
}

// Close releases the Lua state.
func (p *Policy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
}
