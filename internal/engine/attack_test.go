package engine

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/dice"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// scriptSource feeds a fixed sequence of Intn results, then zeroes.
type scriptSource struct {
	vals []int
	i    int
}

func (s *scriptSource) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++
	return v % n
}

type noEffects struct{}

func (noEffects) ActiveEffectInstances(string) ([]game.StatusEffectInstance, error) { return nil, nil }
func (noEffects) SaveEffectInstance(*game.StatusEffectInstance) error               { return nil }

func newTestEffects() *effects.Engine {
	return effects.NewEngine(effects.NewRegistry(nil), noEffects{})
}

func newFighter(uuid, name string, room uint, fatigue, vitality int) *game.PlayerCharacter {
	return &game.PlayerCharacter{
		CharacterUUID: uuid,
		Name:          name,
		Room:          room,
		Pool: game.Pools{
			Fatigue: fatigue, MaxFatigue: fatigue,
			Vitality: vitality, MaxVitality: vitality,
		},
	}
}

func TestResolveMelee_WorkedExample(t *testing.T) {
	// Attacker skill 12, attack roll +2 (AV 14); defender dodge 10, roll 0
	// (DV 10) -> SV 4. Physicality 10, roll +3 -> RV 5 -> +2 bonus -> SV 6
	// -> 2d8 raw damage.
	src := &scriptSource{vals: []int{
		4, 4, 2, 2, // attack roll: +1 +1 0 0 = +2
		2, 2, 2, 2, // defense roll: 0
		4, 4, 4, 2, // physicality roll: +3
		2,    // location d12 = 3 -> torso
		4, 5, // damage 2d8 = 5 + 6 = 11
	}}
	eq := game.NewStaticEquipment()
	eq.Set("player:att", game.Loadout{MainHand: &game.Weapon{
		Name: "longsword", Skill: "longsword", DamageType: game.DamageSlash, DamageClass: 1,
	}})

	att := newFighter("att", "Attacker", 1, 10, 20)
	att.SetSkill("longsword", 12)
	att.SetSkill(game.SkillPhysicality, 10)
	def := newFighter("def", "Defender", 1, 10, 20)
	def.SetSkill(game.SkillDodge, 10)

	e := New(dice.NewRoller(src), eq, newTestEffects())
	res, err := e.ResolveMelee(att, def, MeleeOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Success || res.Missed {
		t.Fatalf("expected a hit, got %+v", res.ActionResult)
	}
	if res.AttackValue != 14 || res.DefenseValue != 10 {
		t.Fatalf("expected AV 14 / DV 10, got %d / %d", res.AttackValue, res.DefenseValue)
	}
	if res.ResultValue != 5 {
		t.Fatalf("expected RV 5, got %d", res.ResultValue)
	}
	if res.SuccessValue != 6 {
		t.Fatalf("expected final SV 6, got %d", res.SuccessValue)
	}
	if res.HitLocation != game.LocationTorso {
		t.Fatalf("expected torso, got %s", res.HitLocation)
	}
	if res.RawDamage != 11 {
		t.Fatalf("expected raw 11 from 2d8, got %d", res.RawDamage)
	}
	if res.FatigueDamage != 11 || res.VitalityDamage != 5 || res.Wounds != 2 {
		t.Fatalf("unexpected split: %d/%d/%d", res.FatigueDamage, res.VitalityDamage, res.Wounds)
	}
	if def.Pool.PendingFatigue != 11 || def.Pool.PendingVitality != 5 || def.Pool.Wounds != 2 {
		t.Fatalf("pending not queued: %+v", def.Pool)
	}
	// Attacker paid 1 fatigue, dodging defender paid 1.
	if att.Pool.Fatigue != 9 || def.Pool.Fatigue != 9 {
		t.Fatalf("expected fatigue 9/9, got %d/%d", att.Pool.Fatigue, def.Pool.Fatigue)
	}
}

func TestResolveMelee_DifferentRoomAborts(t *testing.T) {
	att := newFighter("a", "A", 1, 5, 10)
	def := newFighter("b", "B", 2, 5, 10)
	e := New(dice.NewRoller(dice.SeededSource(1)), game.NewStaticEquipment(), newTestEffects())
	res, err := e.ResolveMelee(att, def, MeleeOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Success {
		t.Fatalf("expected abort for different rooms")
	}
	if att.Pool.Fatigue != 5 {
		t.Fatalf("abort must not cost fatigue")
	}
}

func TestResolveMelee_FatigueGate(t *testing.T) {
	att := newFighter("a", "A", 1, 1, 10)
	def := newFighter("b", "B", 1, 5, 10)
	e := New(dice.NewRoller(dice.SeededSource(1)), game.NewStaticEquipment(), newTestEffects())

	// Dual wield costs 2; attacker has 1.
	res, err := e.ResolveMelee(att, def, MeleeOptions{DualWield: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Success {
		t.Fatalf("expected silent failure on fatigue gate")
	}
	if res.Message != MsgTooExhausted {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestResolveMelee_BrokenWeaponBlocks(t *testing.T) {
	eq := game.NewStaticEquipment()
	eq.Set("player:a", game.Loadout{MainHand: &game.Weapon{Name: "cracked axe", Skill: "axe", Broken: true}})
	att := newFighter("a", "A", 1, 5, 10)
	def := newFighter("b", "B", 1, 5, 10)
	e := New(dice.NewRoller(dice.SeededSource(1)), eq, newTestEffects())
	res, err := e.ResolveMelee(att, def, MeleeOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Success || res.Message != MsgWeaponBroken {
		t.Fatalf("expected broken-weapon failure, got %+v", res.ActionResult)
	}
	if att.Pool.Fatigue != 5 {
		t.Fatalf("broken weapon must not cost fatigue")
	}
}

func TestResolveMelee_OffHandPenaltyAndUnarmedFallback(t *testing.T) {
	// No equipment: unarmed fallback, off-hand swing takes -2.
	src := &scriptSource{vals: []int{
		2, 2, 2, 2, // attack roll 0
		2, 2, 2, 2, // defense roll 0
	}}
	att := newFighter("a", "A", 1, 5, 10)
	att.SetSkill(game.SkillUnarmed, 5)
	def := newFighter("b", "B", 1, 5, 10)
	def.SetSkill(game.SkillDodge, 10)
	e := New(dice.NewRoller(src), game.NewStaticEquipment(), newTestEffects())
	res, err := e.ResolveMelee(att, def, MeleeOptions{Hand: game.HandOff})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.WeaponSkill != game.SkillUnarmed {
		t.Fatalf("expected unarmed fallback, got %q", res.WeaponSkill)
	}
	if res.AttackValue != 3 { // 5 - 2 off-hand
		t.Fatalf("expected AV 3, got %d", res.AttackValue)
	}
	if !res.Missed {
		t.Fatalf("expected miss at SV %d", res.SuccessValue)
	}
	// SV = 3 - 10 = -7 -> severity (-2, 2 rounds).
	if res.AttackerPenalty == nil || res.AttackerPenalty.Amount != -2 || res.AttackerPenalty.Rounds != 2 {
		t.Fatalf("expected over-extension penalty (-2, 2), got %+v", res.AttackerPenalty)
	}
}

func TestResolveMelee_ParryCostsDefenderNothing(t *testing.T) {
	src := &scriptSource{vals: []int{
		2, 2, 2, 2, // attack roll 0
		2, 2, 2, 2, // defense roll 0
	}}
	eq := game.NewStaticEquipment()
	eq.Set("player:b", game.Loadout{MainHand: &game.Weapon{Name: "blade", Skill: "blade"}})
	att := newFighter("a", "A", 1, 5, 10)
	def := newFighter("b", "B", 1, 5, 10)
	def.SetSkill("blade", 12)
	e := New(dice.NewRoller(src), eq, newTestEffects())
	res, err := e.ResolveMelee(att, def, MeleeOptions{DefenderParry: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.DefenseValue != 12 {
		t.Fatalf("expected parry DV 12 from weapon skill, got %d", res.DefenseValue)
	}
	if def.Pool.Fatigue != 5 {
		t.Fatalf("parrying must not cost fatigue, got %d", def.Pool.Fatigue)
	}
	if att.Pool.Fatigue != 4 {
		t.Fatalf("attacker always pays, got %d", att.Pool.Fatigue)
	}
}

func TestOverextensionPenaltyTable(t *testing.T) {
	cases := []struct {
		margin, amount, rounds int
		ok                     bool
	}{
		{-2, 0, 0, false},
		{-3, -1, 1, true},
		{-4, -1, 1, true},
		{-5, -2, 1, true},
		{-7, -2, 2, true},
		{-9, -3, 3, true},
		{-20, -3, 3, true},
	}
	for _, c := range cases {
		pen, ok := OverextensionPenalty(c.margin)
		if ok != c.ok || pen.Amount != c.amount || pen.Rounds != c.rounds {
			t.Fatalf("margin %d: got (%d,%d,%v) want (%d,%d,%v)",
				c.margin, pen.Amount, pen.Rounds, ok, c.amount, c.rounds, c.ok)
		}
	}
}

func TestResultBonusTable(t *testing.T) {
	cases := map[int]int{-5: 0, 0: 0, 1: 0, 2: 1, 3: 1, 4: 2, 7: 2, 8: 3, 11: 3, 12: 4, 30: 4}
	for rv, want := range cases {
		if got := ResultBonus(rv); got != want {
			t.Fatalf("ResultBonus(%d) = %d, want %d", rv, got, want)
		}
	}
}

func TestDamageSplitTable(t *testing.T) {
	cases := []struct{ raw, fat, vit, wounds int }{
		{0, 0, 0, 0},
		{1, 1, 0, 0},
		{6, 6, 0, 0},
		{7, 7, 1, 1},
		{10, 10, 4, 1},
		{11, 11, 5, 2},
		{15, 15, 9, 2},
		{16, 16, 10, 3},
		{21, 21, 15, 4},
		{26, 26, 20, 5},
	}
	for _, c := range cases {
		fat, vit, wounds := DamageSplit(c.raw)
		if fat != c.fat || vit != c.vit || wounds != c.wounds {
			t.Fatalf("DamageSplit(%d) = (%d,%d,%d), want (%d,%d,%d)",
				c.raw, fat, vit, wounds, c.fat, c.vit, c.wounds)
		}
	}
}

func TestMitigateSV_MonotoneAndNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sv := rapid.IntRange(0, 40).Draw(rt, "sv")
		a := rapid.IntRange(0, 60).Draw(rt, "absorbA")
		b := rapid.IntRange(0, 60).Draw(rt, "absorbB")
		if a > b {
			a, b = b, a
		}
		ma, mb := MitigateSV(sv, a), MitigateSV(sv, b)
		if ma < 0 || mb < 0 {
			rt.Fatalf("mitigated SV went negative: %d %d", ma, mb)
		}
		if mb > ma {
			rt.Fatalf("more absorption increased SV: absorb %d -> %d but absorb %d -> %d", a, ma, b, mb)
		}
	})
}

func TestTotalAbsorption_ClassGapBypass(t *testing.T) {
	pieces := []game.ArmorPiece{
		{Name: "leather cuirass", Slot: "chest", Absorption: map[game.DamageType]int{game.DamageSlash: 3}, DamageClass: 0},
		{Name: "mail shirt", Slot: "chest", Absorption: map[game.DamageType]int{game.DamageSlash: 4}, DamageClass: 2},
		{Name: "cracked plate", Slot: "chest", Absorption: map[game.DamageType]int{game.DamageSlash: 6}, DamageClass: 3, Broken: true},
	}
	// Weapon class 2: leather loses the 2-point gap (3-2=1), mail keeps 4,
	// broken plate contributes nothing.
	if got := TotalAbsorption(pieces, game.DamageSlash, 2); got != 5 {
		t.Fatalf("expected total absorption 5, got %d", got)
	}
	// Damage type with no absorption entry contributes zero.
	if got := TotalAbsorption(pieces, game.DamageEnergy, 0); got != 0 {
		t.Fatalf("expected 0 for uncovered damage type, got %d", got)
	}
}

func TestRollRawDamage_TableBounds(t *testing.T) {
	r := dice.NewRoller(dice.SeededSource(7))
	for sv := 0; sv <= 20; sv++ {
		for i := 0; i < 200; i++ {
			raw := RollRawDamage(r, sv)
			if raw < 0 {
				t.Fatalf("negative raw damage at SV %d", sv)
			}
			if sv >= 15 && raw > 60 {
				t.Fatalf("10d6 cannot exceed 60, got %d", raw)
			}
		}
	}
	if RollRawDamage(r, -1) != 0 {
		t.Fatalf("negative SV must deal no damage")
	}
}
