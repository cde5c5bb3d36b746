package effects

import (
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// TickReport describes what one instance tick queued onto a combatant's
// pending pools (positive = damage, negative = healing).
type TickReport struct {
	FatigueDelta  int
	VitalityDelta int
	Ticks         int
}

// TickInstance advances one instance's periodic component, queueing the
// owed damage/healing into the combatant's pending pools. Elapsed whole
// ticks since the last tick (or application) are applied in one step so a
// slow sweep never loses ticks.
func (e *Engine) TickInstance(inst *game.StatusEffectInstance, pools *game.Pools) (TickReport, error) {
	var rep TickReport
	def, ok := e.registry.Get(inst.EffectKey)
	if !ok || def.TickSeconds <= 0 || !inst.Active {
		return rep, nil
	}
	now := e.now()
	if inst.Expired(now) {
		return rep, nil
	}

	since := inst.AppliedAt
	if inst.LastTickAt != nil {
		since = *inst.LastTickAt
	}
	interval := def.TickInterval()
	elapsed := now.Sub(since)
	n := int(elapsed / interval)
	if n <= 0 {
		return rep, nil
	}
	rep.Ticks = n

	for _, imp := range def.Impacts {
		amount := imp.Amount
		if imp.ScaleWithIntensity {
			amount *= inst.Intensity
		}
		amount *= inst.Stacks * n

		switch imp.Kind {
		case game.ImpactFatigueDamage:
			pools.PendingFatigue = game.SatAdd(pools.PendingFatigue, amount)
			rep.FatigueDelta += amount
		case game.ImpactVitalityDamage:
			pools.PendingVitality = game.SatAdd(pools.PendingVitality, amount)
			rep.VitalityDelta += amount
		case game.ImpactFatigueHeal:
			pools.PendingFatigue = game.SatAdd(pools.PendingFatigue, -amount)
			rep.FatigueDelta -= amount
		case game.ImpactVitalityHeal:
			pools.PendingVitality = game.SatAdd(pools.PendingVitality, -amount)
			rep.VitalityDelta -= amount
		}
	}

	next := since.Add(time.Duration(n) * interval)
	inst.LastTickAt = &next
	if err := e.store.SaveEffectInstance(inst); err != nil {
		return rep, err
	}
	return rep, nil
}

// ExpireInstances deactivates instances whose expiry has passed and
// returns how many were closed.
func (e *Engine) ExpireInstances(combatantKey string) (int, error) {
	insts, err := e.store.ActiveEffectInstances(combatantKey)
	if err != nil {
		return 0, err
	}
	now := e.now()
	closed := 0
	for i := range insts {
		if insts[i].Active && insts[i].Expired(now) {
			insts[i].Active = false
			if err := e.store.SaveEffectInstance(&insts[i]); err != nil {
				return closed, err
			}
			closed++
		}
	}
	return closed, nil
}

// HealWounds applies natural wound healing: one wound heals per
// WoundHealInterval per active wound instance, applied lazily whenever
// checked. Returns the number of wounds healed.
func (e *Engine) HealWounds(combatantKey string) (int, error) {
	insts, err := e.store.ActiveEffectInstances(combatantKey)
	if err != nil {
		return 0, err
	}
	now := e.now()
	healed := 0
	for i := range insts {
		inst := &insts[i]
		if !inst.Active {
			continue
		}
		def, ok := e.registry.Get(inst.EffectKey)
		if !ok || def.Category != game.CategoryWound {
			continue
		}
		since := inst.AppliedAt
		if inst.LastTickAt != nil {
			since = *inst.LastTickAt
		}
		n := int(now.Sub(since) / WoundHealInterval)
		if n <= 0 {
			continue
		}
		if n > inst.Stacks {
			n = inst.Stacks
		}
		inst.Stacks -= n
		healed += n
		mark := since.Add(time.Duration(n) * WoundHealInterval)
		inst.LastTickAt = &mark
		if inst.Stacks <= 0 {
			inst.Active = false
		}
		if err := e.store.SaveEffectInstance(inst); err != nil {
			return healed, err
		}
	}
	return healed, nil
}
