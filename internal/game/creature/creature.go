// Package creature implements a single monster instance: its level-derived stats,
// health, attacks, and evolution.
package creature

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/battletower/internal/game/element"
	"github.com/cory-johannsen/battletower/internal/game/formula"
	"github.com/cory-johannsen/battletower/internal/game/species"
)

// ErrNoEvolution is returned by Evolve when the species has no evolution target.
var ErrNoEvolution = errors.New("species has no evolution")

// ErrInvalidArgument is returned when a non-whole HP amount is assigned.
var ErrInvalidArgument = errors.New("invalid argument")

// Effectiveness returns the damage multiplier for an attacker element against a defender element.
type Effectiveness func(attacker, defender element.Element) float64

// Neutral is an Effectiveness that always returns 1.
func Neutral(element.Element, element.Element) float64 { return 1 }

// Options configure how creatures are built.
type Options struct {
	// Mode selects the species stat block.
	Mode species.Mode
	// Effectiveness scales attack damage; nil means Neutral.
	Effectiveness Effectiveness
}

// Creature is a live monster. Stats are derived from its species and level on every query.
//
// Invariant: 0 <= hp <= MaxHP(); level >= 1 and never decreases.
type Creature struct {
	species   *species.Descriptor
	stats     species.Stats
	opts      Options
	level     int
	hp        int
	leveledUp bool
}

// New creates a creature of desc at level with full HP.
//
// Precondition: desc must be non-nil; level >= 1.
// Postcondition: Returns a creature whose stats resolve at level, or a non-nil error.
func New(desc *species.Descriptor, level int, opts Options) (*Creature, error) {
	if level < 1 {
		return nil, fmt.Errorf("creature %s: level must be >= 1, got %d: %w", desc.Name, level, ErrInvalidArgument)
	}
	stats, err := desc.Stats(opts.Mode)
	if err != nil {
		return nil, err
	}
	v, err := stats.At(level)
	if err != nil {
		return nil, fmt.Errorf("creature %s: %w", desc.Name, err)
	}
	if err := checkMaxHP(v, level); err != nil {
		return nil, fmt.Errorf("creature %s: %w", desc.Name, err)
	}
	if opts.Effectiveness == nil {
		opts.Effectiveness = Neutral
	}
	return &Creature{
		species: desc,
		stats:   stats,
		opts:    opts,
		level:   level,
		hp:      v.MaxHP,
	}, nil
}

// values resolves the stat block at the current level. New and LevelUp guarantee
// the stats resolve at every level a creature can hold.
func (c *Creature) values() species.Values {
	v, err := c.stats.At(c.level)
	if err != nil {
		panic("creature: stats failed to resolve at a validated level: " + err.Error())
	}
	return v
}

// Species returns the creature's species descriptor.
func (c *Creature) Species() *species.Descriptor { return c.species }

// Name returns the species name.
func (c *Creature) Name() string { return c.species.Name }

// Element returns the species element.
func (c *Creature) Element() element.Element { return c.species.Element }

// Level returns the current level.
func (c *Creature) Level() int { return c.level }

// HP returns current hit points.
func (c *Creature) HP() int { return c.hp }

// Attack returns the attack stat at the current level.
func (c *Creature) Attack() int { return c.values().Attack }

// Defense returns the defense stat at the current level.
func (c *Creature) Defense() int { return c.values().Defense }

// Speed returns the speed stat at the current level.
func (c *Creature) Speed() int { return c.values().Speed }

// MaxHP returns maximum hit points at the current level.
func (c *Creature) MaxHP() int { return c.values().MaxHP }

// HasLeveledUp reports whether the creature has leveled since creation or its last evolution.
func (c *Creature) HasLeveledUp() bool { return c.leveledUp }

// LevelUp raises the level by one and marks the creature as leveled.
// HP is clamped if the new maximum is lower.
//
// Postcondition: On success Level() has increased by 1 and HasLeveledUp() is true;
// on error (stats fail to resolve at the new level, or max HP there is below 1)
// the creature is unchanged.
func (c *Creature) LevelUp() error {
	v, err := c.stats.At(c.level + 1)
	if err == nil {
		err = checkMaxHP(v, c.level+1)
	}
	if err != nil {
		return fmt.Errorf("creature %s: leveling to %d: %w", c.Name(), c.level+1, err)
	}
	c.level++
	c.leveledUp = true
	if c.hp > v.MaxHP {
		c.hp = v.MaxHP
	}
	return nil
}

// checkMaxHP rejects a stat block whose max HP is below 1 at level.
func checkMaxHP(v species.Values, level int) error {
	if v.MaxHP < 1 {
		return fmt.Errorf("max_hp %d at level %d must be >= 1: %w", v.MaxHP, level, formula.ErrMalformedFormula)
	}
	return nil
}

// SetHP assigns hit points, clamped to [0, MaxHP()].
//
// Precondition: v must be a whole number.
// Postcondition: Returns ErrInvalidArgument and leaves HP unchanged for a fractional,
// infinite, or NaN value.
func (c *Creature) SetHP(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return fmt.Errorf("creature %s: hp %v is not a whole number: %w", c.Name(), v, ErrInvalidArgument)
	}
	switch limit := c.MaxHP(); {
	case v > float64(limit):
		c.hp = limit
	case v < 0:
		c.hp = 0
	default:
		c.hp = int(v)
	}
	return nil
}

// RemoveHealth reduces HP by amount, flooring at zero.
//
// Postcondition: HP() >= 0.
func (c *Creature) RemoveHealth(amount int) {
	c.hp -= amount
	if c.hp < 0 {
		c.hp = 0
	}
}

// Alive reports whether HP > 0.
func (c *Creature) Alive() bool { return c.hp > 0 }

// RawDamage applies the three-tier attack-versus-defense rule:
//
//	defense < attack/2 → attack - defense
//	defense < attack   → attack*5/8 - defense/4
//	otherwise          → attack/4
func RawDamage(attack, defense int) float64 {
	a, d := float64(attack), float64(defense)
	switch {
	case d < a/2:
		return a - d
	case d < a:
		return a*5/8 - d/4
	default:
		return a / 4
	}
}

// AttackTarget deals damage to other and returns the amount dealt.
// Damage is RawDamage scaled by elemental effectiveness, truncated toward zero, plus one.
//
// Postcondition: Returns 0 and changes nothing if c is not alive; otherwise returns >= 1.
func (c *Creature) AttackTarget(other *Creature) int {
	if !c.Alive() {
		return 0
	}
	raw := RawDamage(c.Attack(), other.Defense())
	scaled := raw * c.opts.Effectiveness(c.Element(), other.Element())
	dmg := int(math.Trunc(scaled)) + 1
	other.RemoveHealth(dmg)
	return dmg
}

// ReadyToEvolve reports whether the species evolves, the creature has leveled since
// creation or its last evolution, and it is alive.
func (c *Creature) ReadyToEvolve() bool {
	return c.species.Evolution != nil && c.leveledUp && c.Alive()
}

// Evolve returns a new creature of the evolution species at the same level. Damage
// taken carries over: HP is the evolution's max minus the current deficit, clamped
// to [0, evolution max]. The receiver is not modified.
//
// Postcondition: Returns ErrNoEvolution if the species has no evolution target.
func (c *Creature) Evolve() (*Creature, error) {
	target := c.species.Evolution
	if target == nil {
		return nil, fmt.Errorf("creature %s: %w", c.Name(), ErrNoEvolution)
	}
	evolved, err := New(target, c.level, c.opts)
	if err != nil {
		return nil, fmt.Errorf("evolving %s: %w", c.Name(), err)
	}
	deficit := c.MaxHP() - c.hp
	hp := evolved.MaxHP() - deficit
	if hp < 0 {
		hp = 0
	}
	evolved.hp = hp
	return evolved, nil
}

// String returns e.g. "LV.3 Flamikin, 5/6 HP".
func (c *Creature) String() string {
	return fmt.Sprintf("LV.%d %s, %d/%d HP", c.level, c.Name(), c.hp, c.MaxHP())
}
