package team_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/dice"
	"github.com/cory-johannsen/battletower/internal/game/element"
	"github.com/cory-johannsen/battletower/internal/game/species"
	"github.com/cory-johannsen/battletower/internal/game/team"
)

type listed []*species.Descriptor

func (l listed) ListSpecies() []*species.Descriptor { return l }

// scripted returns draws from a fixed sequence.
type scripted struct{ values []int }

func (s *scripted) RandInt(lo, hi int) int {
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

func descriptor(name string, spawnable bool) *species.Descriptor {
	return &species.Descriptor{
		Name:      name,
		Element:   element.Normal,
		Spawnable: spawnable,
		Simple:    &species.FixedStats{Attack: 1, Defense: 1, Speed: 1, MaxHP: 5},
	}
}

// TestNewRandom_DrawsSizeThenSpawnableIndices verifies the size is drawn first, then one index per
// member over spawnable species only.
func TestNewRandom_DrawsSizeThenSpawnableIndices(t *testing.T) {
	catalog := listed{descriptor("A", true), descriptor("Hidden", false), descriptor("B", true)}
	rng := &scripted{values: []int{3, 1, 0, 1}}

	tm, err := team.NewRandom(team.ModeBack, catalog, rng, creature.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "B"}, names(tm))
	for _, c := range tm.Members() {
		assert.Equal(t, 1, c.Level())
	}
}

// TestNewRandom_NoSpawnable verifies a catalog without spawnable species returns ErrNoSpawnable.
func TestNewRandom_NoSpawnable(t *testing.T) {
	_, err := team.NewRandom(team.ModeFront, listed{descriptor("Hidden", false)}, &scripted{}, creature.Options{})
	assert.ErrorIs(t, err, team.ErrNoSpawnable)
}

func TestNewRandom_SizeAndSpawnability_Property(t *testing.T) {
	catalog := listed{descriptor("A", true), descriptor("Hidden", false), descriptor("B", true), descriptor("C", true)}
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		rng := dice.NewLoggedRoller(dice.NewSeededSource(seed), nil)
		tm, err := team.NewRandom(team.ModeBack, catalog, rng, creature.Options{})
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, tm.Len(), 1)
		assert.LessOrEqual(rt, tm.Len(), team.Limit)
		for _, c := range tm.Members() {
			assert.NotEqual(rt, "Hidden", c.Name())
		}
	})
}

// TestNewRandom_SameSeedSameTeam verifies the same seed builds the same team.
func TestNewRandom_SameSeedSameTeam(t *testing.T) {
	catalog := listed{descriptor("A", true), descriptor("B", true), descriptor("C", true)}
	build := func() []string {
		rng := dice.NewLoggedRoller(dice.NewSeededSource(42), nil)
		tm, err := team.NewRandom(team.ModeFront, catalog, rng, creature.Options{})
		require.NoError(t, err)
		return names(tm)
	}
	assert.Equal(t, build(), build())
}

// TestNewProvided_SkipsAndTruncates verifies non-spawnable species are skipped and species beyond
// the limit are counted as dropped.
func TestNewProvided_SkipsAndTruncates(t *testing.T) {
	descs := []*species.Descriptor{descriptor("Hidden", false)}
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		descs = append(descs, descriptor(n, true))
	}
	tm, dropped, err := team.NewProvided(team.ModeBack, descs, creature.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, names(tm))
}

// TestNewProvided_OptimiseNeedsKey verifies provided teams also require a sort key in optimise
// mode.
func TestNewProvided_OptimiseNeedsKey(t *testing.T) {
	_, _, err := team.NewProvided(team.ModeOptimise, nil, creature.Options{})
	assert.ErrorIs(t, err, team.ErrInvalidSortConfiguration)
}
