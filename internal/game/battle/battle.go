// Package battle implements the turn-resolution state machine that fights two
// teams until one or both run out of living creatures.
package battle

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/battletower/internal/game/team"
)

// ErrBattleOver is returned by ProcessTurn once the session has reached a result.
var ErrBattleOver = errors.New("battle is already over")

// Result is the terminal outcome of a battle.
// The zero value (ResultNone) means the battle is still in progress.
type Result int

const (
	ResultNone Result = iota
	ResultTeam1
	ResultTeam2
	ResultDraw
)

// String returns "team1", "team2", "draw", or "none".
func (r Result) String() string {
	switch r {
	case ResultTeam1:
		return "team1"
	case ResultTeam2:
		return "team2"
	case ResultDraw:
		return "draw"
	default:
		return "none"
	}
}

// Side identifies one of the two teams in a battle.
type Side int

const (
	Side1 Side = iota
	Side2
)

func (s Side) other() Side { return 1 - s }

// String returns "side1" or "side2".
func (s Side) String() string { return fmt.Sprintf("side%d", int(s)+1) }

// SideRecord captures what one side did during a turn and where it ended up.
type SideRecord struct {
	Action team.Action
	// Dealt is the damage this side's attack inflicted, 0 if it did not attack.
	Dealt     int
	LeveledUp bool
	Evolved   bool
	Fainted   bool
	// Creature is the active creature's name after the turn, empty if the side is exhausted.
	Creature string
	HP       int
}

// TurnRecord is the log entry for one processed turn.
type TurnRecord struct {
	Turn  int
	Sides [2]SideRecord
}

// String returns a compact one-line summary of the turn.
func (r TurnRecord) String() string {
	s1, s2 := r.Sides[Side1], r.Sides[Side2]
	return fmt.Sprintf("turn %d: %s %s(%d) dealt %d | %s %s(%d) dealt %d",
		r.Turn, s1.Action, s1.Creature, s1.HP, s1.Dealt, s2.Action, s2.Creature, s2.HP, s2.Dealt)
}
