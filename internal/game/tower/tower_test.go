package tower_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battletower/internal/game/battle"
	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/dice"
	"github.com/cory-johannsen/battletower/internal/game/element"
	"github.com/cory-johannsen/battletower/internal/game/species"
	"github.com/cory-johannsen/battletower/internal/game/team"
	"github.com/cory-johannsen/battletower/internal/game/tower"
)

type stats struct{ atk, def, spd, hp int }

func desc(name string, elem element.Element, s stats) *species.Descriptor {
	return &species.Descriptor{
		Name:      name,
		Element:   elem,
		Spawnable: true,
		Simple:    &species.FixedStats{Attack: s.atk, Defense: s.def, Speed: s.spd, MaxHP: s.hp},
	}
}

func buildTeam(t require.TestingT, name string, descs ...*species.Descriptor) *team.Team {
	tm, err := team.New(team.ModeBack, team.WithName(name))
	require.NoError(t, err)
	for _, d := range descs {
		c, err := creature.New(d, 1, creature.Options{})
		require.NoError(t, err)
		require.NoError(t, tm.AddToTeam(c))
	}
	return tm
}

type listed []*species.Descriptor

func (l listed) ListSpecies() []*species.Descriptor { return l }

var (
	champion = stats{atk: 50, def: 10, spd: 10, hp: 100}
	weakling = stats{atk: 1, def: 0, spd: 1, hp: 5}
	even     = stats{atk: 1, def: 0, spd: 3, hp: 3}
)

func newTower(opts tower.Options) *tower.Tower {
	rng := dice.NewLoggedRoller(dice.NewSeededSource(7), nil)
	return tower.New(battle.NewEngine(nil), listed{}, rng, opts, nil)
}

// TestNextBattle_PlayerWinsRetiresOpponents verifies a win costs the opponent a life, retiring it
// at zero and re-queuing it otherwise.
func TestNextBattle_PlayerWinsRetiresOpponents(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	tw.SetPlayerTeam(buildTeam(t, "Player", desc("Champ", element.Normal, champion)))
	tw.Reset(2)
	a := buildTeam(t, "A", desc("Pip", element.Fire, weakling))
	b := buildTeam(t, "B", desc("Pop", element.Water, weakling))
	require.NoError(t, tw.AddOpponent(a, 1))
	require.NoError(t, tw.AddOpponent(b, 2))

	rec, err := tw.NextBattle()
	require.NoError(t, err)
	assert.Equal(t, battle.ResultTeam1, rec.Result)
	assert.Same(t, a, rec.Opponent)
	assert.Equal(t, 0, rec.OpponentLives)
	assert.Equal(t, 10, rec.PlayerLives)
	assert.Equal(t, []*team.Team{a}, tw.DeadTeams())

	rec, err = tw.NextBattle()
	require.NoError(t, err)
	assert.Same(t, b, rec.Opponent)
	assert.Equal(t, 1, rec.OpponentLives)
	require.Len(t, tw.Opponents(), 1, "survivor re-queued")

	rec, err = tw.NextBattle()
	require.NoError(t, err)
	assert.Same(t, b, rec.Opponent)
	assert.Equal(t, 0, rec.OpponentLives)

	assert.False(t, tw.BattlesRemaining())
	assert.Empty(t, tw.Opponents())
	assert.Equal(t, []*team.Team{a, b}, tw.DeadTeams())
	assert.Equal(t, 3, tw.BattlesFought())

	_, err = tw.NextBattle()
	assert.ErrorIs(t, err, tower.ErrNoBattlesRemaining)
}

// TestNextBattle_PlayerLosesLives verifies each loss costs the player a life and the session ends
// when none remain.
func TestNextBattle_PlayerLosesLives(t *testing.T) {
	opts := tower.DefaultOptions()
	opts.PlayerLives = 2
	tw := newTower(opts)
	tw.SetPlayerTeam(buildTeam(t, "Player", desc("Pip", element.Normal, weakling)))
	tw.Reset(1)
	require.NoError(t, tw.AddOpponent(buildTeam(t, "Boss", desc("Champ", element.Dragon, champion)), 5))

	records, err := tw.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, battle.ResultTeam2, rec.Result)
		assert.Equal(t, 5, rec.OpponentLives)
	}
	assert.Equal(t, 0, tw.PlayerLives())
	assert.False(t, tw.BattlesRemaining())
	assert.Len(t, tw.Opponents(), 1)
}

// TestNextBattle_DrawCostsBothSides verifies a draw costs both the player and the opponent a life.
func TestNextBattle_DrawCostsBothSides(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	tw.SetPlayerTeam(buildTeam(t, "Player", desc("A", element.Normal, even)))
	tw.Reset(1)
	require.NoError(t, tw.AddOpponent(buildTeam(t, "Mirror", desc("B", element.Normal, even)), 2))

	rec, err := tw.NextBattle()
	require.NoError(t, err)
	assert.Equal(t, battle.ResultDraw, rec.Result)
	assert.Equal(t, 9, rec.PlayerLives)
	assert.Equal(t, 1, rec.OpponentLives)
}

// TestNextBattle_HealsTeamsFirst verifies both teams are healed before every battle.
func TestNextBattle_HealsTeamsFirst(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	player := buildTeam(t, "Player", desc("Champ", element.Normal, champion))
	tw.SetPlayerTeam(player)
	tw.Reset(1)
	require.NoError(t, tw.AddOpponent(buildTeam(t, "A", desc("Pip", element.Fire, weakling)), 3))

	for i := 0; i < 3; i++ {
		_, err := tw.NextBattle()
		require.NoError(t, err)
	}
	members := player.Members()
	require.Len(t, members, 1)
	assert.True(t, members[0].Alive())
}

// TestRunContext_StopsBetweenBattles verifies a cancelled context stops the ladder before the next
// battle.
func TestRunContext_StopsBetweenBattles(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	tw.SetPlayerTeam(buildTeam(t, "Player", desc("Champ", element.Normal, champion)))
	tw.Reset(1)
	require.NoError(t, tw.AddOpponent(buildTeam(t, "A", desc("Pip", element.Fire, weakling)), 3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records, err := tw.RunContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
	assert.Equal(t, 0, tw.BattlesFought())
	assert.True(t, tw.BattlesRemaining())
}

// TestNextBattle_RequiresPlayer verifies a battle without a player team returns ErrNoPlayerTeam.
func TestNextBattle_RequiresPlayer(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	_, err := tw.NextBattle()
	assert.ErrorIs(t, err, tower.ErrNoPlayerTeam)
}

// TestAddOpponent_Errors verifies non-positive lives and a full roster are rejected.
func TestAddOpponent_Errors(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	tw.Reset(1)
	opp := buildTeam(t, "A", desc("Pip", element.Fire, weakling))
	assert.Error(t, tw.AddOpponent(opp, 0))
	require.NoError(t, tw.AddOpponent(opp, 1))
	assert.ErrorIs(t, tw.AddOpponent(opp, 1), tower.ErrRosterFull)
}

// TestOutOfMeta verifies out-of-meta elements are those seen earlier but absent from the upcoming
// battle.
func TestOutOfMeta(t *testing.T) {
	tw := newTower(tower.DefaultOptions())
	tw.SetPlayerTeam(buildTeam(t, "Player", desc("Champ", element.Normal, champion)))
	tw.Reset(2)
	require.NoError(t, tw.AddOpponent(buildTeam(t, "Fire", desc("Pip", element.Fire, weakling)), 2))
	require.NoError(t, tw.AddOpponent(buildTeam(t, "Water", desc("Pop", element.Water, weakling)), 2))

	assert.Empty(t, tw.OutOfMeta(), "nothing seen yet")

	_, err := tw.NextBattle()
	require.NoError(t, err)
	assert.Equal(t, element.NewSet(element.Normal, element.Fire), tw.SeenElements())
	assert.Equal(t, []element.Element{element.Fire}, tw.OutOfMeta())

	_, err = tw.NextBattle()
	require.NoError(t, err)
	assert.Equal(t, []element.Element{element.Water}, tw.OutOfMeta())
}

var catalog = listed{
	desc("Flamikin", element.Fire, stats{atk: 6, def: 4, spd: 8, hp: 10}),
	desc("Aquariuma", element.Water, stats{atk: 5, def: 8, spd: 7, hp: 15}),
	desc("Vineon", element.Grass, stats{atk: 5, def: 5, spd: 6, hp: 12}),
	desc("Shockle", element.Electric, stats{atk: 7, def: 3, spd: 9, hp: 8}),
	desc("Pebblit", element.Rock, stats{atk: 4, def: 9, spd: 2, hp: 14}),
}

// TestGenerateTeams_LivesInRange verifies generated opponents are back-mode teams with lives in
// [MinLives, MaxLives].
func TestGenerateTeams_LivesInRange(t *testing.T) {
	rng := dice.NewLoggedRoller(dice.NewSeededSource(129371), nil)
	tw := tower.New(battle.NewEngine(nil), catalog, rng, tower.DefaultOptions(), nil)
	require.NoError(t, tw.GenerateTeams(4))

	entries := tw.Opponents()
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.GreaterOrEqual(t, e.Lives, 2)
		assert.LessOrEqual(t, e.Lives, 10)
		assert.Positive(t, e.Team.Len())
		assert.Equal(t, team.ModeBack, e.Team.Mode())
	}
	assert.Error(t, tw.GenerateTeams(0))
}

// TestRun_LadderInvariants_Property checks across random sessions that retired
// opponents are never fought again and OutOfMeta never names an element of the
// upcoming battle.
func TestRun_LadderInvariants_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		n := rapid.IntRange(1, 4).Draw(rt, "n")
		rng := dice.NewLoggedRoller(dice.NewSeededSource(seed), nil)
		tw := tower.New(battle.NewEngine(nil), catalog, rng, tower.DefaultOptions(), nil)

		player, err := team.NewRandom(team.ModeBack, catalog, rng, creature.Options{}, team.WithName("Player"))
		require.NoError(rt, err)
		tw.SetPlayerTeam(player)
		require.NoError(rt, tw.GenerateTeams(n))

		retired := map[*team.Team]bool{}
		for tw.BattlesRemaining() {
			upcoming := player.Elements().Union(tw.Opponents()[0].Team.Elements())
			for _, e := range tw.OutOfMeta() {
				assert.False(rt, upcoming.Contains(e), "out of meta element %s is in the upcoming battle", e)
			}

			rec, err := tw.NextBattle()
			require.NoError(rt, err)
			assert.False(rt, retired[rec.Opponent], "retired opponent fought again")
			if rec.OpponentLives == 0 {
				retired[rec.Opponent] = true
			}
			for _, e := range tw.Opponents() {
				assert.Positive(rt, e.Lives)
				assert.False(rt, retired[e.Team])
			}
		}
		assert.Len(rt, tw.DeadTeams(), len(retired))
	})
}
