package service

import (
	"fmt"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/engine"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/events"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/vitality"
)

// EffectKeyWound is the registry key wound instances are applied under.
const EffectKeyWound = "wound"

// Refusals for effect-driven prevention gates. A disabling impact on any
// active effect wins over everything the combatant tries.
const (
	MsgCannotAct  = "You are in no condition to act."
	MsgCannotMove = "You are rooted in place."
)

// AttackRequest is one melee attack attempt.
type AttackRequest struct {
	AttackerKey string
	TargetKey   string
	Hand        game.Hand
	DualWield   bool
}

// AttackOutcome is what the caller (command handler or NPC pulse) gets
// back: the resolution record plus the session it ran in.
type AttackOutcome struct {
	Result      *engine.AttackResult
	SessionUUID string
}

// PerformMeleeAttack runs one complete melee attack: availability gate,
// session bookkeeping, resolution, wound effects, persistence and event
// publication.
func (s *Service) PerformMeleeAttack(req AttackRequest) (*AttackOutcome, error) {
	release := s.locks.acquire(req.AttackerKey, req.TargetKey)
	defer release()

	attacker, err := s.loadCombatant(req.AttackerKey)
	if err != nil {
		return nil, err
	}
	target, err := s.loadCombatant(req.TargetKey)
	if err != nil {
		return nil, err
	}

	gate := vitality.GateAction(attacker, s.roller)
	if gate.CheckAttempted {
		s.bus.SkillUsed(events.SkillUsage{
			CombatantKey: attacker.Key(),
			Skill:        game.SkillPhysicality,
			UsageType:    events.UsageGatedCheck,
			BasePoints:   1,
			Context:      fmt.Sprintf("gate check vs %d", gate.CheckTarget),
		})
	}
	if !gate.Success {
		return &AttackOutcome{Result: &engine.AttackResult{ActionResult: gate.ActionResult}}, nil
	}

	sum, err := s.effects.Summary(attacker.Key())
	if err != nil {
		return nil, fmt.Errorf("attacker effect summary: %w", err)
	}
	if !sum.CanAct {
		return &AttackOutcome{Result: &engine.AttackResult{ActionResult: game.Failure(MsgCannotAct)}}, nil
	}

	sess, res, err := s.sessions.Engage(attacker, target)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &AttackOutcome{Result: &engine.AttackResult{ActionResult: res}}, nil
	}

	opts := engine.MeleeOptions{
		Hand:       req.Hand,
		DualWield:  req.DualWield,
		PenaltySum: s.sessions.PenaltySum(sess, attacker.Key()),
	}
	if p := sess.ParticipantFor(target.Key()); p != nil {
		opts.DefenderParry = p.ParryMode
	}

	result, err := s.attacks.ResolveMelee(attacker, target, opts)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return &AttackOutcome{Result: result, SessionUUID: sess.SessionUUID}, nil
	}

	if result.AttackerPenalty != nil {
		expiry := result.AttackerPenalty.Expiry(s.now())
		if err := s.sessions.AddPenalty(sess, attacker.Key(), result.AttackerPenalty.Amount, expiry); err != nil {
			logging.Error("failed to record attacker penalty", err, logging.Fields{"combatant_key": attacker.Key()})
		}
	}

	for i := 0; i < result.Wounds; i++ {
		_, err := s.effects.Apply(target.Key(), EffectKeyWound, effects.ApplyOptions{Location: result.HitLocation})
		if err != nil {
			logging.Error("failed to apply wound effect", err, logging.Fields{"combatant_key": target.Key()})
			break
		}
	}

	if err := s.repo.SaveCombatant(attacker); err != nil {
		return nil, fmt.Errorf("save attacker: %w", err)
	}
	if err := s.repo.SaveCombatant(target); err != nil {
		return nil, fmt.Errorf("save target: %w", err)
	}

	entry := &game.CombatActionLog{
		SessionID:       sess.ID,
		ActorKey:        attacker.Key(),
		TargetKey:       target.Key(),
		AttackRoll:      result.AttackRoll,
		DefenseRoll:     result.DefenseRoll,
		PhysicalityRoll: result.PhysicalityRoll,
		AttackValue:     result.AttackValue,
		DefenseValue:    result.DefenseValue,
		SuccessValue:    result.SuccessValue,
		ResultValue:     result.ResultValue,
		HitLocation:     result.HitLocation,
		Absorbed:        result.Absorbed,
		RawDamage:       result.RawDamage,
		FatigueDamage:   result.FatigueDamage,
		VitalityDamage:  result.VitalityDamage,
		Wounds:          result.Wounds,
		Missed:          result.Missed,
		Description:     result.Description,
	}
	if err := s.repo.AppendActionLog(entry); err != nil {
		logging.Error("failed to append action log", err, logging.Fields{"session_uuid": sess.SessionUUID})
	}
	s.bus.CombatAction(sess, entry)

	s.bus.SkillUsed(events.SkillUsage{
		CombatantKey: attacker.Key(),
		Skill:        result.WeaponSkill,
		UsageType:    events.UsageAttack,
		BasePoints:   1,
		Context:      "melee attack",
	})
	s.bus.SkillUsed(events.SkillUsage{
		CombatantKey: target.Key(),
		Skill:        result.DefenseSkill,
		UsageType:    events.UsageDefense,
		BasePoints:   1,
		Context:      "melee defense",
	})

	if result.TargetDown {
		if err := s.sessions.MarkDead(sess, target.Key()); err != nil {
			logging.Error("failed to close session on death", err, logging.Fields{"session_uuid": sess.SessionUUID})
		}
	}
	return &AttackOutcome{Result: result, SessionUUID: sess.SessionUUID}, nil
}

// PerformRangedAttack is a stub: ranged resolution (aim states, range
// bands, ammunition) lives in a separate subsystem. It reports a typed
// refusal instead of guessing at melee semantics.
func (s *Service) PerformRangedAttack(req AttackRequest) (*AttackOutcome, error) {
	return &AttackOutcome{Result: &engine.AttackResult{
		ActionResult: game.Failure(engine.MsgRangedStub),
	}}, nil
}
