// Package config provides Viper-based configuration loading for the battle tower.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is where log lines go: "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// ContentConfig locates the game data files.
type ContentConfig struct {
	// SpeciesFile is the YAML species catalog.
	SpeciesFile string `mapstructure:"species_file"`
	// ElementsFile is the YAML effectiveness table; empty means every matchup is neutral.
	ElementsFile string `mapstructure:"elements_file"`
	// PolicyScript is an optional Lua file defining choose_action for every team.
	PolicyScript string `mapstructure:"policy_script"`
	// ScriptInstructionLimit caps Lua opcodes per policy call; 0 uses the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// TeamConfig selects how teams are ordered and which stat block creatures use.
type TeamConfig struct {
	// Mode is "front", "back", or "optimise".
	Mode string `mapstructure:"mode"`
	// SortKey is the stat an optimised team is sorted by: "hp", "attack", "defense", "speed", or "level".
	SortKey string `mapstructure:"sort_key"`
	// StatsMode is "simple" (fixed stats) or "complex" (level formulas).
	StatsMode string `mapstructure:"stats_mode"`
}

// TowerConfig holds ladder settings.
type TowerConfig struct {
	// Seed drives every random draw; the same seed replays the same session.
	Seed int64 `mapstructure:"seed"`
	// RosterSize is the number of opponent teams generated.
	RosterSize int `mapstructure:"roster_size"`
	// MinLives and MaxLives bound each opponent's random life count.
	MinLives int `mapstructure:"min_lives"`
	MaxLives int `mapstructure:"max_lives"`
	// PlayerLives is the player's starting life count.
	PlayerLives int `mapstructure:"player_lives"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	Team    TeamConfig    `mapstructure:"team"`
	Tower   TowerConfig   `mapstructure:"tower"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTeam(c.Team); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTower(c.Tower); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.SpeciesFile == "" {
		errs = append(errs, "content.species_file must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTeam(t TeamConfig) error {
	var errs []string
	mode := strings.ToLower(t.Mode)
	validModes := map[string]bool{"front": true, "back": true, "optimise": true, "optimize": true}
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("team.mode must be one of [front, back, optimise], got %q", t.Mode))
	}
	validKeys := map[string]bool{"": true, "hp": true, "attack": true, "defense": true, "speed": true, "level": true}
	if !validKeys[strings.ToLower(t.SortKey)] {
		errs = append(errs, fmt.Sprintf("team.sort_key must be one of [hp, attack, defense, speed, level], got %q", t.SortKey))
	}
	if (mode == "optimise" || mode == "optimize") && t.SortKey == "" {
		errs = append(errs, "team.sort_key is required when team.mode is optimise")
	}
	validStats := map[string]bool{"simple": true, "complex": true}
	if !validStats[strings.ToLower(t.StatsMode)] {
		errs = append(errs, fmt.Sprintf("team.stats_mode must be one of [simple, complex], got %q", t.StatsMode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTower(t TowerConfig) error {
	var errs []string
	if t.RosterSize < 1 {
		errs = append(errs, fmt.Sprintf("tower.roster_size must be >= 1, got %d", t.RosterSize))
	}
	if t.MinLives < 1 {
		errs = append(errs, fmt.Sprintf("tower.min_lives must be >= 1, got %d", t.MinLives))
	}
	if t.MaxLives < t.MinLives {
		errs = append(errs, fmt.Sprintf("tower.max_lives (%d) must not be less than tower.min_lives (%d)", t.MaxLives, t.MinLives))
	}
	if t.PlayerLives < 1 {
		errs = append(errs, fmt.Sprintf("tower.player_lives must be >= 1, got %d", t.PlayerLives))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// TOWER_TOWER_SEED overrides tower.seed, and so on.
	v.SetEnvPrefix("TOWER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance populated with every default value.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("content.species_file", "content/species.yaml")
	v.SetDefault("content.elements_file", "content/elements.yaml")
	v.SetDefault("content.policy_script", "")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("team.mode", "back")
	v.SetDefault("team.sort_key", "")
	v.SetDefault("team.stats_mode", "simple")

	v.SetDefault("tower.seed", 129371)
	v.SetDefault("tower.roster_size", 3)
	v.SetDefault("tower.min_lives", 2)
	v.SetDefault("tower.max_lives", 10)
	v.SetDefault("tower.player_lives", 10)
}
