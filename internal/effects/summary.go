package effects

import (
	"strings"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// Summary aggregates every active, unexpired instance on a combatant into
// typed buckets. Impacts scale by intensity (when flagged) and stacks.
// Wounds contribute a fixed attack penalty per stack and a per-location
// count. Natural wound healing is applied lazily first.
func (e *Engine) Summary(combatantKey string) (*game.EffectSummary, error) {
	if _, err := e.HealWounds(combatantKey); err != nil {
		return nil, err
	}

	insts, err := e.store.ActiveEffectInstances(combatantKey)
	if err != nil {
		return nil, err
	}
	now := e.now()
	sum := game.NewEffectSummary()

	for i := range insts {
		inst := &insts[i]
		if !inst.Active || inst.Expired(now) {
			continue
		}
		def, ok := e.registry.Get(inst.EffectKey)
		if !ok {
			continue
		}
		if def.Category == game.CategoryWound {
			sum.WoundStacks += inst.Stacks
			sum.AttackValue += WoundAttackPenalty * inst.Stacks
			if inst.Location != "" {
				sum.WoundsByLocation[inst.Location] += inst.Stacks
			}
			continue
		}
		for _, imp := range def.Impacts {
			amount := imp.Amount
			if imp.ScaleWithIntensity {
				amount *= inst.Intensity
			}
			amount *= inst.Stacks

			switch imp.Kind {
			case game.ImpactAttribute:
				sum.Attributes[strings.ToLower(imp.Target)] += amount
			case game.ImpactSkill:
				sum.Skills[strings.ToLower(imp.Target)] += amount
			case game.ImpactAttackValue:
				sum.AttackValue += amount
			case game.ImpactDefenseValue:
				sum.DefenseValue += amount
			case game.ImpactMaxFatigue:
				sum.MaxFatigue += amount
			case game.ImpactMaxVitality:
				sum.MaxVitality += amount
			case game.ImpactDamageDealt:
				sum.DamageDealtPercent += amount
			case game.ImpactDamageReceived:
				sum.DamageReceivedPercent += amount
			case game.ImpactPreventMovement:
				sum.CanMove = false
			case game.ImpactPreventSpellcast:
				sum.CanCast = false
			case game.ImpactPreventAction:
				sum.CanAct = false
			case game.ImpactInvisibility:
				sum.Invisible = true
			}
		}
	}
	return sum, nil
}
