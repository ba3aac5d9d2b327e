// Package species defines monster species descriptors, their stat blocks, and
// the YAML-backed species catalog.
package species

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/battletower/internal/game/formula"
)

// Mode selects which stat block a team uses for its creatures.
type Mode int

const (
	ModeSimple Mode = iota
	ModeComplex
)

// String returns "simple" or "complex".
func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// ParseMode resolves "simple" or "complex" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "simple":
		return ModeSimple, nil
	case "complex":
		return ModeComplex, nil
	}
	return 0, fmt.Errorf("unknown stats mode %q", s)
}

// StatsKind tags which variant a Stats value holds.
type StatsKind int

const (
	StatsFixed StatsKind = iota
	StatsFormula
)

// FixedStats are level-independent stat values.
type FixedStats struct {
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
	MaxHP   int `yaml:"max_hp"`
}

// FormulaStats hold one postfix formula per stat, parameterized by level.
type FormulaStats struct {
	Attack  formula.Formula `yaml:"attack"`
	Defense formula.Formula `yaml:"defense"`
	Speed   formula.Formula `yaml:"speed"`
	MaxHP   formula.Formula `yaml:"max_hp"`
}

// Values is a resolved stat block at a particular level.
type Values struct {
	Attack  int
	Defense int
	Speed   int
	MaxHP   int
}

// Stats is the tagged variant Fixed | Formula.
type Stats struct {
	Kind    StatsKind
	Fixed   FixedStats
	Formula FormulaStats
}

// Fixed wraps f as a Stats value.
func Fixed(f FixedStats) Stats { return Stats{Kind: StatsFixed, Fixed: f} }

// Formulas wraps f as a Stats value.
func Formulas(f FormulaStats) Stats { return Stats{Kind: StatsFormula, Formula: f} }

// At resolves every stat at level. Formula results are truncated toward zero.
// Formulas are evaluated on every call because level changes over a creature's life.
//
// Postcondition: Returns resolved Values or an error wrapping formula.ErrMalformedFormula.
func (s Stats) At(level int) (Values, error) {
	switch s.Kind {
	case StatsFixed:
		return Values(s.Fixed), nil
	case StatsFormula:
		var v Values
		targets := []struct {
			name string
			f    formula.Formula
			dst  *int
		}{
			{"attack", s.Formula.Attack, &v.Attack},
			{"defense", s.Formula.Defense, &v.Defense},
			{"speed", s.Formula.Speed, &v.Speed},
			{"max_hp", s.Formula.MaxHP, &v.MaxHP},
		}
		for _, tgt := range targets {
			x, err := tgt.f.Eval(level)
			if err != nil {
				return Values{}, fmt.Errorf("%s formula %q at level %d: %w", tgt.name, tgt.f, level, err)
			}
			*tgt.dst = int(x)
		}
		return v, nil
	default:
		return Values{}, fmt.Errorf("unknown stats kind %d", s.Kind)
	}
}
