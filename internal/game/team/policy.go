package team

import "github.com/cory-johannsen/battletower/internal/game/creature"

// Action identifies what a team's active creature does this turn.
// The zero value (ActionUnknown) is intentionally invalid.
type Action int

const (
	ActionUnknown Action = iota
	ActionAttack
	ActionSwap
	ActionSpecial
)

// String returns "attack", "swap", "special", or "unknown".
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionSwap:
		return "swap"
	case ActionSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Policy decides a team's action each turn.
type Policy interface {
	ChooseAction(self, enemy *creature.Creature) Action
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(self, enemy *creature.Creature) Action

// ChooseAction calls f.
func (f PolicyFunc) ChooseAction(self, enemy *creature.Creature) Action { return f(self, enemy) }

// DefaultPolicy attacks unless its creature is strictly slower and has strictly
// less HP than the enemy, in which case it swaps.
type DefaultPolicy struct{}

// ChooseAction implements Policy.
func (DefaultPolicy) ChooseAction(self, enemy *creature.Creature) Action {
	if self.Speed() < enemy.Speed() && self.HP() < enemy.HP() {
		return ActionSwap
	}
	return ActionAttack
}
