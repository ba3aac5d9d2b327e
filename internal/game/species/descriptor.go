package species

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/battletower/internal/game/element"
)

// ErrMissingStats is returned when a species has no stat block for the requested mode.
var ErrMissingStats = errors.New("species has no stats for mode")

// Descriptor is one immutable species catalog entry.
type Descriptor struct {
	Name      string          `yaml:"name"`
	Element   element.Element `yaml:"element"`
	Spawnable bool            `yaml:"spawnable"`
	Simple    *FixedStats     `yaml:"simple"`
	Complex   *FormulaStats   `yaml:"complex"`
	// EvolvesTo names the evolution species; empty means no evolution.
	EvolvesTo string `yaml:"evolves_to"`
	// Evolution is resolved from EvolvesTo when the catalog is built.
	Evolution *Descriptor `yaml:"-"`
}

// Stats returns the stat block for mode.
//
// Postcondition: Returns Stats or an error wrapping ErrMissingStats.
func (d *Descriptor) Stats(mode Mode) (Stats, error) {
	switch mode {
	case ModeSimple:
		if d.Simple != nil {
			return Fixed(*d.Simple), nil
		}
	case ModeComplex:
		if d.Complex != nil {
			return Formulas(*d.Complex), nil
		}
	}
	return Stats{}, fmt.Errorf("%s (%s): %w", d.Name, mode, ErrMissingStats)
}

// Validate checks the descriptor's own invariants. Evolution targets are checked by the catalog.
//
// Postcondition: Returns nil iff Name is non-empty, at least one stat block is present,
// simple max_hp >= 1, and every formula evaluates at level 1 with max_hp >= 1.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("species: name must not be empty")
	}
	if d.Simple == nil && d.Complex == nil {
		return fmt.Errorf("species %q: at least one of simple or complex stats is required", d.Name)
	}
	if d.Simple != nil && d.Simple.MaxHP < 1 {
		return fmt.Errorf("species %q: simple max_hp must be >= 1", d.Name)
	}
	if d.Complex != nil {
		v, err := Formulas(*d.Complex).At(1)
		if err != nil {
			return fmt.Errorf("species %q: %w", d.Name, err)
		}
		if v.MaxHP < 1 {
			return fmt.Errorf("species %q: complex max_hp must be >= 1 at level 1", d.Name)
		}
	}
	return nil
}
