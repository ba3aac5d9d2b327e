// Package tower implements the battle tower ladder: a rotating roster of
// opponent teams, each with a life count, fought one after another by the
// player's team until the player or every opponent runs out of lives.
package tower

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/game/battle"
	"github.com/cory-johannsen/battletower/internal/game/container"
	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/element"
	"github.com/cory-johannsen/battletower/internal/game/team"
)

// ErrNoBattlesRemaining is returned by NextBattle when the session is over.
var ErrNoBattlesRemaining = errors.New("no battles remaining")

// ErrNoPlayerTeam is returned when a battle is requested before SetPlayerTeam.
var ErrNoPlayerTeam = errors.New("player team not set")

// ErrRosterFull is returned when adding an opponent beyond the roster capacity.
var ErrRosterFull = errors.New("tower roster is full")

// Options configure a Tower.
type Options struct {
	// MinLives and MaxLives bound the random life count of generated opponents.
	MinLives int
	MaxLives int
	// PlayerLives is the life count given to the player team.
	PlayerLives int
	// Creature configures generated opponent creatures.
	Creature creature.Options
	// Policy decides for generated opponents; nil means team.DefaultPolicy.
	Policy team.Policy
}

// DefaultOptions returns 2..10 opponent lives and 10 player lives.
func DefaultOptions() Options {
	return Options{MinLives: 2, MaxLives: 10, PlayerLives: 10}
}

// Entry is an opponent team and its remaining lives.
type Entry struct {
	Team  *team.Team
	Lives int
}

// Record describes one tower battle after the ladder has been updated.
type Record struct {
	BattleID      uuid.UUID
	Result        battle.Result
	PlayerLives   int
	OpponentLives int
	Opponent      *team.Team
	Turns         int
}

// Tower owns the player team, the opponent roster, and the ladder state of one session.
//
// Invariant: every queued opponent has Lives > 0; opponents whose lives reach 0 are
// moved to the dead list and never queued again.
type Tower struct {
	id          uuid.UUID
	engine      *battle.Engine
	catalog     team.Lister
	rng         team.RNG
	opts        Options
	logger      *zap.Logger
	player      *team.Team
	playerLives int
	opponents   *container.CircularQueue[Entry]
	dead        []*team.Team
	seen        element.Set
	battles     int
}

// New creates a Tower with an empty roster.
//
// Precondition: engine, catalog, and rng must be non-nil; opts.MinLives <= opts.MaxLives.
// A nil logger is replaced with a no-op logger.
// Postcondition: Returns a Tower ready for SetPlayerTeam and GenerateTeams.
func New(engine *battle.Engine, catalog team.Lister, rng team.RNG, opts Options, logger *zap.Logger) *Tower {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	return &Tower{
		id:        id,
		engine:    engine,
		catalog:   catalog,
		rng:       rng,
		opts:      opts,
		logger:    logger.With(zap.String("tower_id", id.String())),
		opponents: container.NewCircularQueue[Entry](0),
	}
}

// ID returns the session id.
func (t *Tower) ID() uuid.UUID { return t.id }

// SetPlayerTeam installs the player's team with opts.PlayerLives lives.
func (t *Tower) SetPlayerTeam(p *team.Team) {
	t.player = p
	t.playerLives = t.opts.PlayerLives
}

// PlayerLives returns the player's remaining lives.
func (t *Tower) PlayerLives() int { return t.playerLives }

// Reset replaces the roster with an empty one holding up to capacity opponents.
// Dead teams and seen elements are kept.
func (t *Tower) Reset(capacity int) {
	t.opponents = container.NewCircularQueue[Entry](capacity)
}

// AddOpponent queues an opponent with the given lives at the tail of the roster.
//
// Precondition: lives > 0.
// Postcondition: Returns ErrRosterFull if the roster is at capacity.
func (t *Tower) AddOpponent(opp *team.Team, lives int) error {
	if lives <= 0 {
		return fmt.Errorf("opponent %s: lives must be > 0, got %d", opp, lives)
	}
	if err := t.opponents.Append(Entry{Team: opp, Lives: lives}); err != nil {
		return fmt.Errorf("opponent %s: %w", opp, ErrRosterFull)
	}
	return nil
}

// GenerateTeams replaces the roster with n random opponent teams, each given a
// random life count in [MinLives, MaxLives].
//
// Precondition: n >= 1.
// Postcondition: The roster holds exactly n opponents, or a non-nil error is returned.
func (t *Tower) GenerateTeams(n int) error {
	if n < 1 {
		return fmt.Errorf("roster size must be >= 1, got %d", n)
	}
	t.Reset(n)
	for i := 0; i < n; i++ {
		opp, err := team.NewRandom(team.ModeBack, t.catalog, t.rng, t.opts.Creature,
			team.WithName(fmt.Sprintf("Tower %d", i+1)), team.WithPolicy(t.opts.Policy))
		if err != nil {
			return fmt.Errorf("generating opponent %d: %w", i+1, err)
		}
		lives := t.rng.RandInt(t.opts.MinLives, t.opts.MaxLives)
		if err := t.AddOpponent(opp, lives); err != nil {
			return err
		}
		t.logger.Debug("opponent generated",
			zap.Stringer("team", opp),
			zap.String("roster", opp.Roster()),
			zap.Int("lives", lives),
		)
	}
	return nil
}

// Opponents returns the queued opponents in fighting order.
func (t *Tower) Opponents() []Entry { return t.opponents.Items() }

// DeadTeams returns the eliminated opponents in elimination order.
func (t *Tower) DeadTeams() []*team.Team {
	out := make([]*team.Team, len(t.dead))
	copy(out, t.dead)
	return out
}

// SeenElements returns every element that has appeared in a fought battle.
func (t *Tower) SeenElements() element.Set { return t.seen }

// BattlesFought returns how many battles NextBattle has resolved.
func (t *Tower) BattlesFought() int { return t.battles }

// BattlesRemaining reports whether the player has lives and any opponent is still queued.
func (t *Tower) BattlesRemaining() bool {
	return t.playerLives > 0 && !t.opponents.IsEmpty()
}

// NextBattle fights the opponent at the head of the roster. Both teams are healed
// first; a draw costs both sides a life, a loss costs the loser a life. The opponent
// is re-queued at the tail unless its lives reached 0.
//
// Postcondition: Returns the battle's Record, ErrNoBattlesRemaining, ErrNoPlayerTeam,
// or a battle error.
func (t *Tower) NextBattle() (Record, error) {
	if t.player == nil {
		return Record{}, ErrNoPlayerTeam
	}
	if !t.BattlesRemaining() {
		return Record{}, ErrNoBattlesRemaining
	}
	entry, err := t.opponents.Serve()
	if err != nil {
		return Record{}, err
	}

	fought := t.player.Elements().Union(entry.Team.Elements())
	t.player.RegenerateTeam()
	entry.Team.RegenerateTeam()

	out, err := t.engine.Battle(t.player, entry.Team)
	if err != nil {
		return Record{}, fmt.Errorf("tower battle %d against %s: %w", t.battles+1, entry.Team, err)
	}
	t.battles++
	t.seen = t.seen.Union(fought)

	switch out.Result {
	case battle.ResultDraw:
		t.playerLives--
		entry.Lives--
	case battle.ResultTeam1:
		entry.Lives--
	case battle.ResultTeam2:
		t.playerLives--
	}

	if entry.Lives <= 0 {
		t.dead = append(t.dead, entry.Team)
	} else if err := t.opponents.Append(entry); err != nil {
		return Record{}, fmt.Errorf("re-queueing %s: %w", entry.Team, err)
	}

	rec := Record{
		BattleID:      out.ID,
		Result:        out.Result,
		PlayerLives:   t.playerLives,
		OpponentLives: entry.Lives,
		Opponent:      entry.Team,
		Turns:         len(out.Turns),
	}
	t.logger.Info("tower battle resolved",
		zap.Int("battle", t.battles),
		zap.String("battle_id", rec.BattleID.String()),
		zap.Stringer("opponent", rec.Opponent),
		zap.Stringer("result", rec.Result),
		zap.Int("player_lives", rec.PlayerLives),
		zap.Int("opponent_lives", rec.OpponentLives),
		zap.Int("turns", rec.Turns),
	)
	return rec, nil
}

// Run fights battles until none remain and returns their records in order.
func (t *Tower) Run() ([]Record, error) {
	return t.RunContext(context.Background())
}

// RunContext is Run, stopping between battles once ctx is done.
//
// Postcondition: On cancellation returns the records fought so far and ctx.Err().
func (t *Tower) RunContext(ctx context.Context) ([]Record, error) {
	var records []Record
	for t.BattlesRemaining() {
		if err := ctx.Err(); err != nil {
			t.logger.Info("tower session interrupted",
				zap.Int("battles", t.battles),
				zap.Int("player_lives", t.playerLives),
			)
			return records, err
		}
		rec, err := t.NextBattle()
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	t.logger.Info("tower session finished",
		zap.Int("battles", t.battles),
		zap.Int("player_lives", t.playerLives),
		zap.Int("dead_teams", len(t.dead)),
		zap.Stringer("seen_elements", t.seen),
	)
	return records, nil
}

// OutOfMeta returns, in element order, every element seen in an earlier battle that
// does not appear in the upcoming battle's rosters. With no upcoming opponent only
// the player's roster is excluded.
func (t *Tower) OutOfMeta() []element.Element {
	var upcoming element.Set
	if t.player != nil {
		upcoming = t.player.Elements()
	}
	if next, err := t.opponents.Peek(); err == nil {
		upcoming = upcoming.Union(next.Team.Elements())
	}
	return t.seen.Difference(upcoming).Elements()
}
