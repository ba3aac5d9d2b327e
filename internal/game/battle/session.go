package battle

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/team"
)

// side pairs a team with the creature it currently has in play.
type side struct {
	team   *team.Team
	active *creature.Creature
}

// Session holds the live state of one battle between two teams.
//
// Invariant: while Result() is ResultNone both actives are non-nil and alive.
type Session struct {
	id     uuid.UUID
	sides  [2]side
	turn   int
	result Result
	logger *zap.Logger
}

func newSession(team1, team2 *team.Team, logger *zap.Logger) (*Session, error) {
	id := uuid.New()
	s := &Session{
		id:     id,
		logger: logger.With(zap.String("battle_id", id.String())),
	}
	s.sides[Side1] = side{team: team1, active: team1.RetrieveFromTeam()}
	s.sides[Side2] = side{team: team2, active: team2.RetrieveFromTeam()}
	s.decide()
	if err := s.returnSurvivors(); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() uuid.UUID { return s.id }

// Turn returns the number of turns processed so far.
func (s *Session) Turn() int { return s.turn }

// Result returns the terminal result, or ResultNone while the battle is in progress.
func (s *Session) Result() Result { return s.result }

// Done reports whether the battle has reached a terminal result.
func (s *Session) Done() bool { return s.result != ResultNone }

// Active returns the creature side has in play, or nil if that side is exhausted.
func (s *Session) Active(sd Side) *creature.Creature { return s.sides[sd].active }

// ProcessTurn resolves one turn: both sides choose, specials and swaps apply,
// attacks resolve in speed order, chip damage applies if both survive, a lone
// survivor levels up, ready creatures evolve, fainted actives are replaced, and
// the session moves to a terminal result if either side has no replacement.
//
// Precondition: Done() is false.
// Postcondition: Returns the turn's record, or ErrBattleOver / a structural error from
// team insertion or leveling.
func (s *Session) ProcessTurn() (TurnRecord, error) {
	if s.Done() {
		return TurnRecord{}, ErrBattleOver
	}
	s.turn++
	rec := TurnRecord{Turn: s.turn}

	for sd := Side1; sd <= Side2; sd++ {
		me, them := &s.sides[sd], &s.sides[sd.other()]
		rec.Sides[sd].Action = me.team.ChooseAction(me.active, them.active)
	}

	for sd := Side1; sd <= Side2; sd++ {
		me := &s.sides[sd]
		switch rec.Sides[sd].Action {
		case team.ActionSpecial:
			me.team.Special()
		case team.ActionSwap:
			if err := me.team.AddToTeam(me.active); err != nil {
				return rec, fmt.Errorf("turn %d %s swap: %w", s.turn, sd, err)
			}
			me.active = me.team.RetrieveFromTeam()
		}
	}

	s.resolveAttacks(&rec)

	a1, a2 := s.sides[Side1].active, s.sides[Side2].active
	if a1.Alive() && a2.Alive() {
		a1.RemoveHealth(1)
		a2.RemoveHealth(1)
	}

	if a1.Alive() != a2.Alive() {
		survivor := Side1
		if a2.Alive() {
			survivor = Side2
		}
		if err := s.sides[survivor].active.LevelUp(); err != nil {
			return rec, fmt.Errorf("turn %d %s level up: %w", s.turn, survivor, err)
		}
		rec.Sides[survivor].LeveledUp = true
	}

	for sd := Side1; sd <= Side2; sd++ {
		me := &s.sides[sd]
		if !me.active.ReadyToEvolve() {
			continue
		}
		evolved, err := me.active.Evolve()
		if err != nil {
			return rec, fmt.Errorf("turn %d %s evolve: %w", s.turn, sd, err)
		}
		s.logger.Debug("creature evolved",
			zap.Stringer("side", sd),
			zap.String("from", me.active.Name()),
			zap.String("to", evolved.Name()),
		)
		me.active = evolved
		rec.Sides[sd].Evolved = true
	}

	for sd := Side1; sd <= Side2; sd++ {
		rec.Sides[sd].Fainted = !s.sides[sd].active.Alive()
	}
	if err := s.replaceFainted(); err != nil {
		return rec, fmt.Errorf("turn %d: %w", s.turn, err)
	}
	s.decide()

	for sd := Side1; sd <= Side2; sd++ {
		if c := s.sides[sd].active; c != nil {
			rec.Sides[sd].Creature = c.Name()
			rec.Sides[sd].HP = c.HP()
		}
	}
	s.logger.Debug("turn processed",
		zap.Int("turn", rec.Turn),
		zap.Stringer("action1", rec.Sides[Side1].Action),
		zap.Stringer("action2", rec.Sides[Side2].Action),
		zap.Int("dealt1", rec.Sides[Side1].Dealt),
		zap.Int("dealt2", rec.Sides[Side2].Dealt),
		zap.String("active1", rec.Sides[Side1].Creature),
		zap.Int("hp1", rec.Sides[Side1].HP),
		zap.String("active2", rec.Sides[Side2].Creature),
		zap.Int("hp2", rec.Sides[Side2].HP),
	)
	if err := s.returnSurvivors(); err != nil {
		return rec, fmt.Errorf("turn %d: %w", s.turn, err)
	}
	return rec, nil
}

// resolveAttacks applies the turn's attacks. When both sides attack, the strictly
// faster creature strikes first and side 1 wins speed ties.
func (s *Session) resolveAttacks(rec *TurnRecord) {
	attack1 := rec.Sides[Side1].Action == team.ActionAttack
	attack2 := rec.Sides[Side2].Action == team.ActionAttack

	var order []Side
	switch {
	case attack1 && attack2:
		if s.sides[Side2].active.Speed() > s.sides[Side1].active.Speed() {
			order = []Side{Side2, Side1}
		} else {
			order = []Side{Side1, Side2}
		}
	case attack1:
		order = []Side{Side1}
	case attack2:
		order = []Side{Side2}
	}
	for _, sd := range order {
		me, them := s.sides[sd].active, s.sides[sd.other()].active
		rec.Sides[sd].Dealt = me.AttackTarget(them)
	}
}

// replaceFainted returns each fainted active to its team and draws the next living member.
func (s *Session) replaceFainted() error {
	for sd := Side1; sd <= Side2; sd++ {
		me := &s.sides[sd]
		if me.active.Alive() {
			continue
		}
		if err := me.team.AddToTeam(me.active); err != nil {
			return fmt.Errorf("%s returning fainted %s: %w", sd, me.active.Name(), err)
		}
		me.active = me.team.RetrieveFromTeam()
	}
	return nil
}

// decide fixes the result once either side has no active creature.
func (s *Session) decide() {
	empty1, empty2 := s.sides[Side1].active == nil, s.sides[Side2].active == nil
	switch {
	case empty1 && empty2:
		s.result = ResultDraw
	case empty1:
		s.result = ResultTeam2
	case empty2:
		s.result = ResultTeam1
	}
}

// returnSurvivors puts any remaining active back on its team once the battle is over.
func (s *Session) returnSurvivors() error {
	if !s.Done() {
		return nil
	}
	for sd := Side1; sd <= Side2; sd++ {
		me := &s.sides[sd]
		if me.active == nil {
			continue
		}
		if err := me.team.AddToTeam(me.active); err != nil {
			return fmt.Errorf("%s returning survivor %s: %w", sd, me.active.Name(), err)
		}
		me.active = nil
	}
	return nil
}
