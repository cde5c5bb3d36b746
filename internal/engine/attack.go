// Package engine implements melee attack resolution: skill and defense
// checks, success-value computation, hit location, armor mitigation and
// damage conversion. It mutates combatant pools (fatigue costs, pending
// damage) but leaves session bookkeeping, logging and event publishing to
// the service layer.
package engine

import (
	"fmt"
	"strings"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/dice"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// Abort messages for the silent-failure paths. These are domain results,
// not errors: the pipeline stops and reports why.
const (
	MsgDifferentRoom = "Your target is not here."
	MsgTooExhausted  = "You are too exhausted to attack."
	MsgWeaponBroken  = "Your weapon is broken."
	MsgRangedStub    = "Ranged attacks are not resolved here."
)

// OffHandPenalty is the attack-value penalty for swinging the off hand.
const OffHandPenalty = -2

// Engine resolves melee attacks.
type Engine struct {
	roller    *dice.Roller
	equipment game.EquipmentProvider
	effects   *effects.Engine
}

// New builds an attack resolution engine.
func New(roller *dice.Roller, equipment game.EquipmentProvider, fx *effects.Engine) *Engine {
	return &Engine{roller: roller, equipment: equipment, effects: fx}
}

// MeleeOptions tunes one attack attempt.
type MeleeOptions struct {
	Hand      game.Hand
	DualWield bool
	// PenaltySum is the attacker's active timed-penalty total, supplied
	// by the session manager.
	PenaltySum int
	// DefenderParry selects the defender's parry mode (weapon skill, no
	// fatigue cost) over dodge.
	DefenderParry bool
}

// AttackResult is the full record of one resolution attempt. Success is
// false only for the abort paths (wrong room, exhaustion, broken or
// unusable weapon); a clean miss is a successful resolution.
type AttackResult struct {
	game.ActionResult
	Missed          bool
	WeaponName      string
	WeaponSkill     string
	DefenseSkill    string
	AttackRoll      int
	DefenseRoll     int
	PhysicalityRoll int
	AttackValue     int
	DefenseValue    int
	SuccessValue    int
	ResultValue     int
	HitLocation     game.BodyLocation
	Absorbed        int
	RawDamage       int
	FatigueDamage   int
	VitalityDamage  int
	Wounds          int
	// TargetDown is checked against current vitality at resolution time,
	// independent of the pending-pool delay.
	TargetDown bool
	// AttackerPenalty carries an over-extension penalty owed by the
	// attacker; the session manager records it.
	AttackerPenalty *PenaltySpec
	Description     string
}

// ResolveMelee runs the full melee pipeline. The returned error is
// reserved for infrastructure failures (effect store unavailable);
// domain aborts come back as unsuccessful results.
func (e *Engine) ResolveMelee(attacker, defender game.Combatant, opts MeleeOptions) (*AttackResult, error) {
	res := &AttackResult{}

	if attacker.RoomID() != defender.RoomID() {
		res.ActionResult = game.Failure(MsgDifferentRoom)
		return res, nil
	}

	cost := 1
	if opts.DualWield {
		cost = 2
	}
	if attacker.Pools().Fatigue < cost {
		res.ActionResult = game.Failure(MsgTooExhausted)
		return res, nil
	}

	hand := opts.Hand
	if hand == "" {
		hand = game.HandMain
	}
	weapon, ok := e.equipment.WeaponFor(attacker.Key(), hand)
	if !ok {
		weapon = game.Unarmed()
	}
	if weapon.Broken {
		res.ActionResult = game.Failure(MsgWeaponBroken)
		return res, nil
	}
	res.WeaponName = weapon.Name
	res.WeaponSkill = weapon.Skill

	atkSum, err := e.effects.Summary(attacker.Key())
	if err != nil {
		return nil, fmt.Errorf("attacker effect summary: %w", err)
	}
	defSum, err := e.effects.Summary(defender.Key())
	if err != nil {
		return nil, fmt.Errorf("defender effect summary: %w", err)
	}

	res.AttackRoll = e.roller.RollExplodingSymmetric()
	av := attacker.SkillLevel(weapon.Skill) + atkSum.Skills[strings.ToLower(weapon.Skill)]
	if hand == game.HandOff {
		av += OffHandPenalty
	}
	av += weapon.AttackModifier + opts.PenaltySum + atkSum.AttackValue + res.AttackRoll
	res.AttackValue = av

	res.DefenseRoll = e.roller.RollExplodingSymmetric()
	var dv int
	if opts.DefenderParry {
		parryWeapon, ok := e.equipment.WeaponFor(defender.Key(), game.HandMain)
		if !ok {
			parryWeapon = game.Unarmed()
		}
		dv = defender.SkillLevel(parryWeapon.Skill) + defSum.Skills[strings.ToLower(parryWeapon.Skill)]
		res.DefenseSkill = parryWeapon.Skill
	} else {
		dv = defender.SkillLevel(game.SkillDodge) + defSum.Skills[game.SkillDodge] + e.equipment.DodgeModifier(defender.Key())
		res.DefenseSkill = game.SkillDodge
	}
	dv += defSum.DefenseValue + res.DefenseRoll
	res.DefenseValue = dv

	sv := av - dv
	res.SuccessValue = sv

	// Costs land regardless of outcome: the attacker always pays, the
	// defender pays 1 fatigue only when dodging.
	attacker.Pools().Fatigue = game.ClampPool(attacker.Pools().Fatigue-cost, attacker.Pools().MaxFatigue)
	if !opts.DefenderParry {
		defender.Pools().Fatigue = game.ClampPool(defender.Pools().Fatigue-1, defender.Pools().MaxFatigue)
	}

	if pen, ok := OverextensionPenalty(sv); ok {
		res.AttackerPenalty = &pen
	}
	if sv < 0 {
		res.Missed = true
		res.ActionResult = game.OK("miss")
		res.Description = fmt.Sprintf("%s swings %s at %s and misses (SV %d)",
			attacker.DisplayName(), weapon.Name, defender.DisplayName(), sv)
		return res, nil
	}

	res.PhysicalityRoll = e.roller.RollExplodingSymmetric()
	rv := attacker.SkillLevel(game.SkillPhysicality) + atkSum.Skills[game.SkillPhysicality] + res.PhysicalityRoll - 8
	res.ResultValue = rv
	sv += ResultBonus(rv) + weapon.SuccessModifier
	if pen, ok := OverextensionPenalty(rv); ok && res.AttackerPenalty == nil {
		res.AttackerPenalty = &pen
	}

	res.HitLocation = e.rollHitLocation()
	res.Absorbed = e.absorptionAt(defender.Key(), res.HitLocation, weapon.DamageType, weapon.DamageClass)
	sv = MitigateSV(sv, res.Absorbed)
	res.SuccessValue = sv

	raw := RollRawDamage(e.roller, sv)
	raw = scalePercent(raw, atkSum.DamageDealtPercent)
	raw = scalePercent(raw, defSum.DamageReceivedPercent)
	res.RawDamage = raw

	fat, vit, wounds := DamageSplit(raw)
	res.FatigueDamage, res.VitalityDamage, res.Wounds = fat, vit, wounds

	pools := defender.Pools()
	pools.PendingFatigue = game.SatAdd(pools.PendingFatigue, fat)
	pools.PendingVitality = game.SatAdd(pools.PendingVitality, vit)
	pools.Wounds = game.SatAdd(pools.Wounds, wounds)

	res.TargetDown = pools.Vitality <= 0
	res.ActionResult = game.OK("hit")
	res.Description = fmt.Sprintf("%s hits %s's %s with %s for %d raw damage (%d FAT, %d VIT, %d wounds)",
		attacker.DisplayName(), defender.DisplayName(), res.HitLocation, weapon.Name, raw, fat, vit, wounds)
	return res, nil
}

// scalePercent applies an additive percent modifier multiplicatively,
// flooring the result and never going negative.
func scalePercent(v, percent int) int {
	if percent == 0 || v == 0 {
		return v
	}
	out := v * (100 + percent) / 100
	if out < 0 {
		return 0
	}
	return out
}
