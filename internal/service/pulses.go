package service

import (
	"context"
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/npc"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/vitality"
)

// RunHealthPulse reconciles pending damage and passive regeneration on
// every damaged combatant at the given period until the context is
// cancelled. Failures on one combatant are logged and do not stop the
// sweep.
func (s *Service) RunHealthPulse(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.healthSweep(period)
		}
	}
}

func (s *Service) healthSweep(period time.Duration) {
	keys, err := s.repo.GetDamagedCombatantKeys()
	if err != nil {
		logging.Error("health pulse scan failed", err, nil)
		return
	}
	for _, key := range keys {
		if err := s.reconcileOne(key, period); err != nil {
			logging.Error("health pulse failed for combatant", err, logging.Fields{"combatant_key": key})
		}
	}
}

func (s *Service) reconcileOne(key string, period time.Duration) error {
	release := s.locks.acquire(key)
	defer release()

	c, err := s.loadCombatant(key)
	if err != nil {
		return err
	}
	pools := c.Pools()
	wasAlive := pools.Vitality > 0

	sum, err := s.effects.Summary(key)
	if err != nil {
		return err
	}
	out := vitality.Reconcile(pools)
	vitality.ApplyRegen(c, s.now(), period, vitality.MaxMods{Fatigue: sum.MaxFatigue, Vitality: sum.MaxVitality})

	if err := s.repo.SaveCombatant(c); err != nil {
		return err
	}
	if out.FatigueCrash {
		logging.Info("fatigue crash", logging.Fields{"combatant_key": key})
	}
	if out.Dead && wasAlive {
		logging.Info("combatant died", logging.Fields{"combatant_key": key})
		sess, err := s.repo.ActiveSessionForCombatant(key)
		if err != nil {
			return err
		}
		if sess != nil {
			if err := s.sessions.MarkDead(sess, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunEffectPulse expires and ticks active status effects until the
// context is cancelled.
func (s *Service) RunEffectPulse(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.effectSweep()
		}
	}
}

func (s *Service) effectSweep() {
	keys, err := s.repo.GetTickableInstanceKeys()
	if err != nil {
		logging.Error("effect pulse scan failed", err, nil)
		return
	}
	for _, key := range keys {
		if err := s.tickEffectsFor(key); err != nil {
			logging.Error("effect pulse failed for combatant", err, logging.Fields{"combatant_key": key})
		}
	}
}

func (s *Service) tickEffectsFor(key string) error {
	release := s.locks.acquire(key)
	defer release()

	if _, err := s.effects.ExpireInstances(key); err != nil {
		return err
	}

	c, err := s.loadCombatant(key)
	if err != nil {
		// The combatant is gone but instances remain; nothing to tick into.
		logging.Warn("effect instances without combatant", logging.Fields{"combatant_key": key})
		return nil
	}

	instances, err := s.repo.ActiveEffectInstances(key)
	if err != nil {
		return err
	}
	changed := false
	for i := range instances {
		report, err := s.effects.TickInstance(&instances[i], c.Pools())
		if err != nil {
			return err
		}
		if report.Ticks > 0 {
			changed = true
		}
	}
	if changed {
		return s.repo.SaveCombatant(c)
	}
	return nil
}

// RunNPCPulse evaluates the decision policy for every engaged NPC spawn
// until the context is cancelled.
func (s *Service) RunNPCPulse(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.npcSweep()
		}
	}
}

func (s *Service) npcSweep() {
	instances, err := s.repo.GetLiveNPCInstances()
	if err != nil {
		logging.Error("npc pulse scan failed", err, nil)
		return
	}
	for i := range instances {
		if err := s.actForNPC(&instances[i]); err != nil {
			logging.Error("npc pulse failed for spawn", err, logging.Fields{"combatant_key": instances[i].Key()})
		}
	}
}

func (s *Service) actForNPC(n *game.NPCInstance) error {
	sess, err := s.repo.ActiveSessionForCombatant(n.Key())
	if err != nil {
		return err
	}
	if sess == nil {
		// Idle spawns do nothing; aggression is driven by room events
		// outside this core.
		return nil
	}

	d := npc.Decide(n, sess)
	switch d.Action {
	case npc.ActionFlee:
		if _, err := s.Flee(n.Key()); err != nil {
			return err
		}
	case npc.ActionAttack:
		if err := s.SetParryMode(n.Key(), npc.DefenseMode(n)); err != nil {
			return err
		}
		if _, err := s.PerformMeleeAttack(AttackRequest{AttackerKey: n.Key(), TargetKey: d.TargetKey}); err != nil {
			return err
		}
	case npc.ActionParry:
		return s.SetParryMode(n.Key(), true)
	case npc.ActionDodge:
		return s.SetParryMode(n.Key(), false)
	}
	return nil
}

// VerifyContent fails fast at wiring time when the seeded content does
// not define the wound effect the attack path depends on.
func VerifyContent(reg *effects.Registry) error {
	if _, ok := reg.Get(EffectKeyWound); !ok {
		return effects.ErrUnknownEffect
	}
	return nil
}
