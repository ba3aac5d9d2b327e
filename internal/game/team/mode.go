package team

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battletower/internal/game/creature"
)

// Mode selects a team's insertion, removal, and reordering discipline.
type Mode int

const (
	// ModeFront inserts at the front (stack discipline).
	ModeFront Mode = iota
	// ModeBack appends at the back (queue discipline).
	ModeBack
	// ModeOptimise keeps members sorted by a stat.
	ModeOptimise
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeFront:
		return "front"
	case ModeBack:
		return "back"
	case ModeOptimise:
		return "optimise"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode name (case-insensitive; "optimize" is accepted).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "front":
		return ModeFront, nil
	case "back":
		return ModeBack, nil
	case "optimise", "optimize":
		return ModeOptimise, nil
	}
	return 0, fmt.Errorf("unknown team mode %q", s)
}

// SortKey projects a creature onto the stat an optimised team is sorted by.
// The zero value (SortNone) is intentionally invalid for ModeOptimise.
type SortKey int

const (
	SortNone SortKey = iota
	SortHP
	SortAttack
	SortDefense
	SortSpeed
	SortLevel
)

// String returns the lower-case key name.
func (k SortKey) String() string {
	switch k {
	case SortHP:
		return "hp"
	case SortAttack:
		return "attack"
	case SortDefense:
		return "defense"
	case SortSpeed:
		return "speed"
	case SortLevel:
		return "level"
	default:
		return "none"
	}
}

// ParseSortKey resolves a key name; the empty string yields SortNone.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return SortNone, nil
	case "hp":
		return SortHP, nil
	case "attack":
		return SortAttack, nil
	case "defense":
		return SortDefense, nil
	case "speed":
		return SortSpeed, nil
	case "level":
		return SortLevel, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

// Project returns the stat value k selects from c.
//
// Precondition: k != SortNone.
func (k SortKey) Project(c *creature.Creature) int {
	switch k {
	case SortHP:
		return c.HP()
	case SortAttack:
		return c.Attack()
	case SortDefense:
		return c.Defense()
	case SortSpeed:
		return c.Speed()
	case SortLevel:
		return c.Level()
	default:
		panic("team: Project called with SortNone")
	}
}
