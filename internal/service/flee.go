package service

import (
	"fmt"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/events"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/vitality"
)

// Flee disengages the combatant from its active session. Fleeing is an
// action: the availability gate applies, so a critically injured
// combatant may fail to escape.
func (s *Service) Flee(key string) (game.ActionResult, error) {
	release := s.locks.acquire(key)
	defer release()

	c, err := s.loadCombatant(key)
	if err != nil {
		return game.ActionResult{}, err
	}

	gate := vitality.GateAction(c, s.roller)
	if gate.CheckAttempted {
		s.bus.SkillUsed(events.SkillUsage{
			CombatantKey: c.Key(),
			Skill:        game.SkillPhysicality,
			UsageType:    events.UsageGatedCheck,
			BasePoints:   1,
			Context:      fmt.Sprintf("gate check vs %d", gate.CheckTarget),
		})
	}
	if !gate.Success {
		return gate.ActionResult, nil
	}
	sum, err := s.effects.Summary(c.Key())
	if err != nil {
		return game.ActionResult{}, fmt.Errorf("combatant effect summary: %w", err)
	}
	switch {
	case !sum.CanMove:
		return game.Failure(MsgCannotMove), nil
	case !sum.CanAct:
		return game.Failure(MsgCannotAct), nil
	}
	return s.sessions.Flee(c)
}

// SetParryMode switches the combatant's defense mode in its active
// session.
func (s *Service) SetParryMode(key string, parry bool) error {
	release := s.locks.acquire(key)
	defer release()

	c, err := s.loadCombatant(key)
	if err != nil {
		return err
	}
	return s.sessions.SetParryMode(c, parry)
}
