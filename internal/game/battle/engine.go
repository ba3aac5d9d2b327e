package battle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/game/team"
)

// Outcome is the full record of a finished battle.
type Outcome struct {
	ID     uuid.UUID
	Result Result
	Turns  []TurnRecord
}

// Engine runs battles between teams. An Engine holds no per-battle state and
// may run any number of battles, one at a time per pair of teams.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a battle Engine.
//
// Precondition: A nil logger is replaced with a no-op logger.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Start draws the first active creature from each team and returns the live session.
// A team with no living member ends the session before the first turn.
//
// Precondition: team1 and team2 must be non-nil and distinct.
func (e *Engine) Start(team1, team2 *team.Team) (*Session, error) {
	return newSession(team1, team2, e.logger)
}

// Battle fights team1 against team2 until a result is reached.
// Both teams are mutated: creatures take damage, level, and evolve, and every
// creature (fainted or surviving) is back on its team when Battle returns.
//
// Precondition: team1 and team2 must be non-nil and distinct.
// Postcondition: Returns an Outcome with a terminal Result, or a non-nil error.
func (e *Engine) Battle(team1, team2 *team.Team) (Outcome, error) {
	s, err := e.Start(team1, team2)
	if err != nil {
		return Outcome{}, err
	}
	e.logger.Debug("battle started",
		zap.String("battle_id", s.ID().String()),
		zap.Stringer("team1", team1),
		zap.Stringer("team2", team2),
	)
	out := Outcome{ID: s.ID()}
	for !s.Done() {
		rec, err := s.ProcessTurn()
		if err != nil {
			return Outcome{}, fmt.Errorf("battle %s: %w", s.ID(), err)
		}
		out.Turns = append(out.Turns, rec)
	}
	out.Result = s.Result()
	e.logger.Info("battle finished",
		zap.String("battle_id", out.ID.String()),
		zap.Stringer("result", out.Result),
		zap.Int("turns", len(out.Turns)),
	)
	return out, nil
}
