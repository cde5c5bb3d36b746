// Package vitality implements the health pool processor: gradual
// reconciliation of pending damage/healing into current fatigue and
// vitality, the exhaustion cascade, passive regeneration gating and the
// availability rule that gates whether a combatant may act at all.
package vitality

import (
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// FatigueCrashDamage is the pending vitality damage queued when the
// fatigue pool bottoms out from a positive value.
const FatigueCrashDamage = 2

// TickOutcome reports what one reconciliation tick did to a combatant.
type TickOutcome struct {
	FatigueDamageApplied  int
	VitalityDamageApplied int
	FatigueHealed         int
	VitalityHealed        int
	FatigueCrash          bool
	Dead                  bool
}

// Changed reports whether the tick moved anything.
func (o TickOutcome) Changed() bool {
	return o.FatigueDamageApplied != 0 || o.VitalityDamageApplied != 0 ||
		o.FatigueHealed != 0 || o.VitalityHealed != 0 || o.FatigueCrash
}

// ceilHalf is the half-life step: at least 1, so pending always drains.
func ceilHalf(v int) int { return (v + 1) / 2 }

// Reconcile applies one tick of pending-pool decay to a combatant's
// pools. Each pool is processed independently against a snapshot of the
// pending values, so damage that overflows into the other pool (or the
// fatigue-crash surcharge) is reconciled on the next tick, not this one.
func Reconcile(p *game.Pools) TickOutcome {
	var out TickOutcome
	pendingFat := p.PendingFatigue
	pendingVit := p.PendingVitality

	if pendingFat > 0 {
		step := ceilHalf(pendingFat)
		applied := step
		if applied > p.Fatigue {
			applied = p.Fatigue
		}
		before := p.Fatigue
		p.Fatigue -= applied
		p.PendingFatigue -= step
		if overflow := step - applied; overflow > 0 {
			p.PendingVitality = game.SatAdd(p.PendingVitality, overflow)
		}
		if before > 0 && p.Fatigue == 0 {
			p.PendingVitality = game.SatAdd(p.PendingVitality, FatigueCrashDamage)
			out.FatigueCrash = true
		}
		out.FatigueDamageApplied = applied
	} else if pendingFat < 0 {
		step := ceilHalf(-pendingFat)
		applied := step
		if missing := p.MaxFatigue - p.Fatigue; applied > missing {
			applied = missing
		}
		p.Fatigue += applied
		p.PendingFatigue += step
		out.FatigueHealed = applied
	}

	if pendingVit > 0 {
		step := ceilHalf(pendingVit)
		applied := step
		if applied > p.Vitality {
			applied = p.Vitality
		}
		p.Vitality -= applied
		p.PendingVitality -= step
		if overflow := step - applied; overflow > 0 {
			p.PendingFatigue = game.SatAdd(p.PendingFatigue, overflow)
		}
		out.VitalityDamageApplied = applied
	} else if pendingVit < 0 {
		step := ceilHalf(-pendingVit)
		applied := step
		if missing := p.MaxVitality - p.Vitality; applied > missing {
			applied = missing
		}
		p.Vitality += applied
		p.PendingVitality += step
		out.VitalityHealed = applied
	}

	out.Dead = p.Vitality <= 0
	return out
}

// VitalityRegenInterval is the passive long-term recovery rate: one point
// per hour, paused entirely once current vitality reaches zero.
const VitalityRegenInterval = time.Hour

// FatigueRegenInterval maps fatigue availability onto a regeneration
// interval. ok=false means regeneration is blocked outright.
func FatigueRegenInterval(available int, base time.Duration) (time.Duration, bool) {
	switch {
	case available <= 1:
		return 0, false
	case available == 2:
		return time.Hour, true
	case available == 3:
		return 30 * time.Minute, true
	case available <= 5:
		return time.Minute, true
	default:
		return base, true
	}
}

// MaxMods carries effect-driven adjustments to the pool maxima (the
// aggregated max_fatigue/max_vitality impacts). Regeneration never fills
// past the effective max; already-filled points are not drained.
type MaxMods struct {
	Fatigue  int
	Vitality int
}

// effectiveMax floors the adjusted max at 1 so a stacked debuff can never
// produce an empty or negative pool ceiling.
func effectiveMax(base, mod int) int {
	m := base + mod
	if m < 1 {
		return 1
	}
	return m
}

// ApplyRegen applies interval-gated passive regeneration to both pools.
// base is the health pulse period (the fastest fatigue band); mods holds
// the combatant's effect-driven max adjustments.
func ApplyRegen(c game.Combatant, now time.Time, base time.Duration, mods MaxMods) (fatigue, vitality int) {
	pools := c.Pools()
	regen := c.Regen()

	maxFat := effectiveMax(pools.MaxFatigue, mods.Fatigue)
	avail := Available(pools.Fatigue, pools.PendingFatigue)
	if interval, ok := FatigueRegenInterval(avail, base); !ok {
		// Blocked: hold the baseline so no credit accrues while down.
		regen.LastFatigueRegen = now
	} else if pools.Fatigue >= maxFat {
		regen.LastFatigueRegen = now
	} else if regen.LastFatigueRegen.IsZero() {
		regen.LastFatigueRegen = now
	} else if n := int(now.Sub(regen.LastFatigueRegen) / interval); n > 0 {
		if missing := maxFat - pools.Fatigue; n > missing {
			n = missing
		}
		pools.Fatigue += n
		regen.LastFatigueRegen = now
		fatigue = n
	}

	maxVit := effectiveMax(pools.MaxVitality, mods.Vitality)
	if pools.Vitality <= 0 {
		// Dead or dying: passive recovery is paused entirely.
		regen.LastVitalityRegen = now
	} else if pools.Vitality >= maxVit {
		regen.LastVitalityRegen = now
	} else if regen.LastVitalityRegen.IsZero() {
		regen.LastVitalityRegen = now
	} else if n := int(now.Sub(regen.LastVitalityRegen) / VitalityRegenInterval); n > 0 {
		if missing := maxVit - pools.Vitality; n > missing {
			n = missing
		}
		pools.Vitality += n
		regen.LastVitalityRegen = now
		vitality = n
	}
	return fatigue, vitality
}
