package team

import "github.com/cory-johannsen/battletower/internal/game/creature"

// specialDistance is how far ahead the front member is swapped in ModeFront.
const specialDistance = 2

// strategy implements one Mode's insertion and special-move discipline.
type strategy interface {
	add(t *Team, c *creature.Creature) error
	special(t *Team)
}

func strategyFor(m Mode) strategy {
	switch m {
	case ModeBack:
		return backStrategy{}
	case ModeOptimise:
		return optimiseStrategy{}
	default:
		return frontStrategy{}
	}
}

type frontStrategy struct{}

func (frontStrategy) add(t *Team, c *creature.Creature) error { return t.members.Insert(0, c) }

func (frontStrategy) special(t *Team) { t.members.SwapFront(specialDistance) }

type backStrategy struct{}

func (backStrategy) add(t *Team, c *creature.Creature) error { return t.members.Append(c) }

func (backStrategy) special(t *Team) { t.members.FlipHalves() }

// optimiseStrategy inserts at the front before re-sorting, so a new member
// precedes existing members with an equal key.
type optimiseStrategy struct{}

func (optimiseStrategy) add(t *Team, c *creature.Creature) error {
	if err := t.members.Insert(0, c); err != nil {
		return err
	}
	t.resort()
	return nil
}

func (optimiseStrategy) special(t *Team) {
	t.descending = !t.descending
	t.resort()
}
