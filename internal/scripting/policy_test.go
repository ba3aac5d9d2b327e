package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/element"
	"github.com/cory-johannsen/battletower/internal/game/species"
	"github.com/cory-johannsen/battletower/internal/game/team"
	"github.com/cory-johannsen/battletower/internal/scripting"
)

func spawn(t testing.TB, name string, elem element.Element, spd, hp int) *creature.Creature {
	t.Helper()
	d := &species.Descriptor{
		Name:    name,
		Element: elem,
		Simple:  &species.FixedStats{Attack: 5, Defense: 5, Speed: spd, MaxHP: hp},
	}
	c, err := creature.New(d, 1, creature.Options{})
	require.NoError(t, err)
	return c
}

func newPolicy(t testing.TB, src string, opts scripting.PolicyOptions) *scripting.Policy {
	t.Helper()
	p, err := scripting.NewPolicy("test.lua", src, opts)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestPolicy_ReadsCreatureFields(t *testing.T) {
	p := newPolicy(t, `
		function choose_action(self, enemy)
			if self.hp < enemy.hp and self.speed < enemy.speed then
				return "swap"
			end
			if self.name == "Spinner" then
				return "SPECIAL"
			end
			return "attack"
		end
	`, scripting.PolicyOptions{})

	slow := spawn(t, "Slow", element.Normal, 1, 3)
	fast := spawn(t, "Fast", element.Normal, 9, 9)
	spinner := spawn(t, "Spinner", element.Normal, 9, 9)
	assert.Equal(t, team.ActionSwap, p.ChooseAction(slow, fast))
	assert.Equal(t, team.ActionAttack, p.ChooseAction(fast, slow))
	assert.Equal(t, team.ActionSpecial, p.ChooseAction(spinner, slow))
}

func TestPolicy_EffectivenessModule(t *testing.T) {
	tbl := element.NewTable()
	require.NoError(t, tbl.Set(element.Water, element.Fire, 2))
	p := newPolicy(t, `
		function choose_action(self, enemy)
			if battle.effectiveness(enemy.element, self.element) > 1 then
				return "swap"
			end
			return "attack"
		end
	`, scripting.PolicyOptions{Effectiveness: tbl.Effectiveness})

	fire := spawn(t, "Flamikin", element.Fire, 5, 10)
	water := spawn(t, "Aquariuma", element.Water, 5, 10)
	assert.Equal(t, team.ActionSwap, p.ChooseAction(fire, water))
	assert.Equal(t, team.ActionAttack, p.ChooseAction(water, fire))
}

func TestPolicy_FallbackOnFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cases := map[string]string{
		"runtime error":  `function choose_action(self, enemy) error("boom") end`,
		"unknown action": `function choose_action(self, enemy) return "flee" end`,
		"non-string":     `function choose_action(self, enemy) return 42 end`,
		"endless loop":   `function choose_action(self, enemy) while true do end end`,
	}
	special := team.PolicyFunc(func(_, _ *creature.Creature) team.Action { return team.ActionSpecial })
	a := spawn(t, "A", element.Normal, 1, 1)
	for name, src := range cases {
		p := newPolicy(t, src, scripting.PolicyOptions{
			InstructionLimit: 1000,
			Fallback:         special,
			Logger:           zap.New(core),
		})
		assert.Equal(t, team.ActionSpecial, p.ChooseAction(a, a), name)
	}
	assert.Equal(t, len(cases), logs.FilterMessage("scripting: policy failed, using fallback").Len())
}

func TestPolicy_RecoversAfterLimit(t *testing.T) {
	p := newPolicy(t, `
		calls = 0
		function choose_action(self, enemy)
			calls = calls + 1
			if calls == 1 then
				while true do end
			end
			return "special"
		end
	`, scripting.PolicyOptions{InstructionLimit: 500})

	slow := spawn(t, "Slow", element.Normal, 1, 1)
	fast := spawn(t, "Fast", element.Normal, 9, 9)
	assert.Equal(t, team.ActionSwap, p.ChooseAction(slow, fast), "default policy fallback")
	assert.Equal(t, team.ActionSpecial, p.ChooseAction(slow, fast))
}

func TestNewPolicy_Errors(t *testing.T) {
	_, err := scripting.NewPolicy("empty.lua", `-- nothing`, scripting.PolicyOptions{})
	assert.ErrorIs(t, err, scripting.ErrMissingHook)

	_, err = scripting.NewPolicy("syntax.lua", `function (`, scripting.PolicyOptions{})
	assert.Error(t, err)

	_, err = scripting.NewPolicy("sandbox.lua", `os.exit(1)`, scripting.PolicyOptions{})
	assert.Error(t, err)
}

func TestLoadPolicy_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.lua")
	require.NoError(t, os.WriteFile(path, []byte(`function choose_action() return "attack" end`), 0644))
	p, err := scripting.LoadPolicy(path, scripting.PolicyOptions{})
	require.NoError(t, err)
	defer p.Close()
	a := spawn(t, "A", element.Normal, 1, 1)
	assert.Equal(t, team.ActionAttack, p.ChooseAction(a, a))

	_, err = scripting.LoadPolicy(filepath.Join(t.TempDir(), "missing.lua"), scripting.PolicyOptions{})
	assert.Error(t, err)
}

func TestPolicy_DrivesTeam(t *testing.T) {
	p := newPolicy(t, `function choose_action() return "special" end`, scripting.PolicyOptions{})
	tm, err := team.New(team.ModeFront, team.WithPolicy(p))
	require.NoError(t, err)
	a := spawn(t, "A", element.Normal, 1, 1)
	assert.Equal(t, team.ActionSpecial, tm.ChooseAction(a, a))
}
