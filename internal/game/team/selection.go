package team

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/species"
)

// ErrNoSpawnable is returned when a random team is requested from a catalog with no spawnable species.
var ErrNoSpawnable = errors.New("catalog has no spawnable species")

// RNG draws uniformly distributed integers in [lo, hi].
type RNG interface {
	RandInt(lo, hi int) int
}

// Lister lists species in catalog order.
type Lister interface {
	ListSpecies() []*species.Descriptor
}

// NewRandom builds a team of RandInt(1, Limit) level-1 creatures, each drawn
// uniformly from the spawnable species in catalog order.
//
// Precondition: rng and catalog must be non-nil.
// Postcondition: Returns a team with 1..Limit members or a non-nil error.
func NewRandom(mode Mode, catalog Lister, rng RNG, copts creature.Options, opts ...Option) (*Team, error) {
	t, err := New(mode, opts...)
	if err != nil {
		return nil, err
	}
	var spawnable []*species.Descriptor
	for _, d := range catalog.ListSpecies() {
		if d.Spawnable {
			spawnable = append(spawnable, d)
		}
	}
	if len(spawnable) == 0 {
		return nil, ErrNoSpawnable
	}
	size := rng.RandInt(1, Limit)
	for i := 0; i < size; i++ {
		d := spawnable[rng.RandInt(0, len(spawnable)-1)]
		c, err := creature.New(d, 1, copts)
		if err != nil {
			return nil, fmt.Errorf("spawning %s: %w", d.Name, err)
		}
		if err := t.AddToTeam(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewProvided builds a team from descs in order, skipping species that cannot be
// spawned and stopping once the team is full.
//
// Postcondition: Returns the team and the number of descriptors left unused, or an error.
func NewProvided(mode Mode, descs []*species.Descriptor, copts creature.Options, opts ...Option) (*Team, int, error) {
	t, err := New(mode, opts...)
	if err != nil {
		return nil, 0, err
	}
	dropped := 0
	for _, d := range descs {
		if !d.Spawnable {
			dropped++
			continue
		}
		if t.members.IsFull() {
			dropped++
			continue
		}
		c, err := creature.New(d, 1, copts)
		if err != nil {
			return nil, 0, fmt.Errorf("spawning %s: %w", d.Name, err)
		}
		if err := t.AddToTeam(c); err != nil {
			return nil, 0, err
		}
	}
	return t, dropped, nil
}
