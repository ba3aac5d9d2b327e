// Package app wires configuration, content files, and the game packages into
// the objects the binaries run.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/config"
	"github.com/cory-johannsen/battletower/internal/game/battle"
	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/dice"
	"github.com/cory-johannsen/battletower/internal/game/element"
	"github.com/cory-johannsen/battletower/internal/game/species"
	"github.com/cory-johannsen/battletower/internal/game/team"
	"github.com/cory-johannsen/battletower/internal/game/tower"
	"github.com/cory-johannsen/battletower/internal/scripting"
)

// App holds the loaded content and shared services for one run.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Catalog  *species.Catalog
	Elements *element.Table
	Roller   *dice.Roller
	Engine   *battle.Engine

	policy   *scripting.Policy
	creature creature.Options
	mode     team.Mode
	sortKey  team.SortKey
}

// New loads the species catalog, effectiveness table, and optional policy script
// named by cfg, and seeds the roller from cfg.Tower.Seed.
//
// Precondition: cfg must have passed Validate. A nil logger is replaced with a no-op logger.
// Postcondition: Returns an App the caller must Close, or a non-nil error.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	var err error
	if a.mode, err = team.ParseMode(cfg.Team.Mode); err != nil {
		return nil, err
	}
	if a.sortKey, err = team.ParseSortKey(cfg.Team.SortKey); err != nil {
		return nil, err
	}
	statsMode, err := species.ParseMode(cfg.Team.StatsMode)
	if err != nil {
		return nil, err
	}

	if a.Catalog, err = species.LoadCatalog(cfg.Content.SpeciesFile); err != nil {
		return nil, fmt.Errorf("loading species: %w", err)
	}
	a.Elements = element.NewTable()
	if cfg.Content.ElementsFile != "" {
		if a.Elements, err = element.LoadTable(cfg.Content.ElementsFile); err != nil {
			return nil, fmt.Errorf("loading elements: %w", err)
		}
	}
	a.creature = creature.Options{Mode: statsMode, Effectiveness: a.Elements.Effectiveness}

	if cfg.Content.PolicyScript != "" {
		a.policy, err = scripting.LoadPolicy(cfg.Content.PolicyScript, scripting.PolicyOptions{
			InstructionLimit: cfg.Content.ScriptInstructionLimit,
			Effectiveness:    a.Elements.Effectiveness,
			Logger:           logger,
		})
		if err != nil {
			return nil, err
		}
	}

	a.Roller = dice.NewLoggedRoller(dice.NewSeededSource(cfg.Tower.Seed), logger)
	a.Engine = battle.NewEngine(logger)

	logger.Info("content loaded",
		zap.Int("species", a.Catalog.Len()),
		zap.Int("spawnable", len(a.Catalog.Spawnable())),
		zap.String("team_mode", a.mode.String()),
		zap.String("stats_mode", statsMode.String()),
		zap.Bool("policy_script", a.policy != nil),
		zap.Int64("seed", cfg.Tower.Seed),
	)
	return a, nil
}

// CreatureOptions returns the stat mode and effectiveness every creature is built with.
func (a *App) CreatureOptions() creature.Options { return a.creature }

// TeamOptions returns the configured sort key and policy plus the given name.
func (a *App) TeamOptions(name string) []team.Option {
	opts := []team.Option{team.WithName(name), team.WithSortKey(a.sortKey)}
	if a.policy != nil {
		opts = append(opts, team.WithPolicy(a.policy))
	}
	return opts
}

// RandomTeam builds a random team in the configured mode.
func (a *App) RandomTeam(name string) (*team.Team, error) {
	return team.NewRandom(a.mode, a.Catalog, a.Roller, a.creature, a.TeamOptions(name)...)
}

// NewTower creates a tower session from the tower configuration. The caller
// still sets the player team and generates opponents.
func (a *App) NewTower() *tower.Tower {
	opts := tower.Options{
		MinLives:    a.Config.Tower.MinLives,
		MaxLives:    a.Config.Tower.MaxLives,
		PlayerLives: a.Config.Tower.PlayerLives,
		Creature:    a.creature,
	}
	if a.policy != nil {
		opts.Policy = a.policy
	}
	return tower.New(a.Engine, a.Catalog, a.Roller, opts, a.Logger)
}

// Close releases the policy script, if any.
func (a *App) Close() {
	if a.policy != nil {
		a.policy.Close()
	}
}
