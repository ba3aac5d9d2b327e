// Package team implements the bounded, mode-ordered monster team and the
// action-choice policies teams use in battle.
package team

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/battletower/internal/game/container"
	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/element"
)

// Limit is the maximum number of members on a team.
const Limit = 6

// ErrTeamFull is returned when adding to a team that already has Limit members.
var ErrTeamFull = errors.New("team is full")

// ErrInvalidSortConfiguration is returned when ModeOptimise is requested without a sort key.
var ErrInvalidSortConfiguration = errors.New("optimise mode requires a sort key")

// ErrIndexOutOfRange is returned for member access outside the team.
var ErrIndexOutOfRange = container.ErrIndexOutOfRange

// Team is an ordered, bounded collection of creatures.
//
// Invariant: Len() <= Limit; in ModeOptimise members are sorted by the sort key
// in the current direction after every mutating operation.
type Team struct {
	name       string
	mode       Mode
	strategy   strategy
	members    *container.List[*creature.Creature]
	sortKey    SortKey
	descending bool
	policy     Policy
}

// Option configures a Team at construction.
type Option func(*Team)

// WithName sets the display name.
func WithName(name string) Option { return func(t *Team) { t.name = name } }

// WithSortKey sets the stat an optimised team is sorted by.
func WithSortKey(k SortKey) Option { return func(t *Team) { t.sortKey = k } }

// WithPolicy sets the team's action-choice policy. Nil keeps DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(t *Team) {
		if p != nil {
			t.policy = p
		}
	}
}

// New creates an empty team. Optimised teams start sorted descending.
//
// Postcondition: Returns ErrInvalidSortConfiguration for ModeOptimise without a sort key.
func New(mode Mode, opts ...Option) (*Team, error) {
	t := &Team{
		mode:       mode,
		strategy:   strategyFor(mode),
		members:    container.NewList[*creature.Creature](Limit),
		descending: true,
		policy:     DefaultPolicy{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if mode == ModeOptimise && t.sortKey == SortNone {
		return nil, fmt.Errorf("team %q: %w", t.name, ErrInvalidSortConfiguration)
	}
	return t, nil
}

// Name returns the display name.
func (t *Team) Name() string { return t.name }

// Mode returns the team mode.
func (t *Team) Mode() Mode { return t.mode }

// SortKey returns the optimise sort key.
func (t *Team) SortKey() SortKey { return t.sortKey }

// Descending reports the current optimise sort direction.
func (t *Team) Descending() bool { return t.descending }

// Len returns the number of members held (not counting any active creature in battle).
func (t *Team) Len() int { return t.members.Len() }

// Members returns the members in order.
func (t *Team) Members() []*creature.Creature { return t.members.Items() }

// Get returns the member at index.
//
// Postcondition: Returns an error wrapping ErrIndexOutOfRange unless 0 <= index < Len().
func (t *Team) Get(index int) (*creature.Creature, error) {
	return t.members.Get(index)
}

// AddToTeam inserts c according to the team mode.
//
// Postcondition: Returns ErrTeamFull if the team already has Limit members.
func (t *Team) AddToTeam(c *creature.Creature) error {
	if t.members.IsFull() {
		return fmt.Errorf("team %q adding %s: %w", t.name, c.Name(), ErrTeamFull)
	}
	return t.strategy.add(t, c)
}

// RetrieveFromTeam removes and returns the first alive member scanning from the front.
// Fainted members are skipped and left in place.
//
// Postcondition: Returns nil if no member is alive.
func (t *Team) RetrieveFromTeam() *creature.Creature {
	for i := 0; i < t.members.Len(); i++ {
		c, _ := t.members.Get(i)
		if c.Alive() {
			_, _ = t.members.DeleteAt(i)
			return c
		}
	}
	return nil
}

// Special applies the mode's special move: ModeFront swaps the front member with the
// one two places ahead, ModeBack exchanges the two halves, ModeOptimise flips the sort
// direction and re-sorts.
func (t *Team) Special() { t.strategy.special(t) }

// RegenerateTeam restores every member to full HP.
func (t *Team) RegenerateTeam() {
	t.members.Each(func(_ int, c *creature.Creature) {
		_ = c.SetHP(float64(c.MaxHP()))
	})
	if t.mode == ModeOptimise {
		t.resort()
	}
}

// Elements returns the set of elements across all members.
func (t *Team) Elements() element.Set {
	var s element.Set
	t.members.Each(func(_ int, c *creature.Creature) {
		s = s.Add(c.Element())
	})
	return s
}

// ChooseAction asks the team's policy what its active creature should do.
func (t *Team) ChooseAction(self, enemy *creature.Creature) Action {
	return t.policy.ChooseAction(self, enemy)
}

// String returns e.g. "Red(3)".
func (t *Team) String() string {
	return fmt.Sprintf("%s(%d)", t.name, t.members.Len())
}

// Roster returns a one-line description of every member.
func (t *Team) Roster() string {
	parts := make([]string, 0, t.members.Len())
	t.members.Each(func(_ int, c *creature.Creature) {
		parts = append(parts, c.String())
	})
	return "[" + strings.Join(parts, "; ") + "]"
}

func (t *Team) resort() {
	t.members.SortStable(t.sortKey.Project, t.descending)
}
