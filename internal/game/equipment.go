package game

import "strings"

// BodyLocation identifies a hit location on a combatant.
type BodyLocation string

const (
	LocationHead     BodyLocation = "head"
	LocationTorso    BodyLocation = "torso"
	LocationLeftArm  BodyLocation = "left_arm"
	LocationRightArm BodyLocation = "right_arm"
	LocationLeftLeg  BodyLocation = "left_leg"
	LocationRightLeg BodyLocation = "right_leg"
)

// DamageType classifies how a weapon hurts; armor absorbs per type.
type DamageType string

const (
	DamageSlash    DamageType = "slash"
	DamagePierce   DamageType = "pierce"
	DamageBludgeon DamageType = "bludgeon"
	DamageEnergy   DamageType = "energy"
)

// Hand selects the equip slot an attack swings from.
type Hand string

const (
	HandMain Hand = "main"
	HandOff  Hand = "off"
)

// Weapon is the slice of an equipped item this core needs to resolve an
// attack. The equipment subsystem owns the full item records.
type Weapon struct {
	Name            string     `json:"name"`
	Skill           string     `json:"skill"`
	AttackModifier  int        `json:"attack_modifier"`
	SuccessModifier int        `json:"success_modifier"`
	DamageType      DamageType `json:"damage_type"`
	DamageClass     int        `json:"damage_class"`
	TwoHanded       bool       `json:"two_handed"`
	Broken          bool       `json:"broken"`
}

// Unarmed is the pseudo-weapon used when no weapon occupies the requested
// slot. It keys off the attacker's base physical skill.
func Unarmed() *Weapon {
	return &Weapon{Name: "bare hands", Skill: SkillUnarmed, DamageType: DamageBludgeon, DamageClass: 0}
}

// ArmorPiece is the slice of an equipped armor item used for mitigation.
// Covers lists explicit coverage tags; when empty, coverage is inferred
// from the equip slot.
type ArmorPiece struct {
	Name        string             `json:"name"`
	Slot        string             `json:"slot"`
	Covers      []BodyLocation     `json:"covers"`
	Absorption  map[DamageType]int `json:"absorption"`
	DamageClass int                `json:"damage_class"`
	Broken      bool               `json:"broken"`
}

// CoversLocation reports whether the piece protects the given location,
// using the explicit coverage tags when present and slot inference otherwise.
func (a *ArmorPiece) CoversLocation(loc BodyLocation) bool {
	if len(a.Covers) > 0 {
		for _, c := range a.Covers {
			if c == loc {
				return true
			}
		}
		return false
	}
	switch strings.ToLower(a.Slot) {
	case "head", "helm":
		return loc == LocationHead
	case "chest", "body", "torso":
		return loc == LocationTorso
	case "arms", "sleeves":
		return loc == LocationLeftArm || loc == LocationRightArm
	case "legs", "greaves":
		return loc == LocationLeftLeg || loc == LocationRightLeg
	default:
		return false
	}
}

// EquipmentProvider is the boundary to the equipment subsystem. The combat
// core only reads; it never mutates equipped items.
type EquipmentProvider interface {
	// WeaponFor returns the weapon equipped in the requested hand slot (a
	// two-handed weapon occupies both). ok=false means the slot is empty
	// and the attack falls back to the unarmed pseudo-weapon.
	WeaponFor(combatantKey string, hand Hand) (w *Weapon, ok bool)
	// ArmorCovering returns all equipped armor pieces protecting a location.
	ArmorCovering(combatantKey string, loc BodyLocation) []ArmorPiece
	// DodgeModifier is the sum of dodge modifiers across equipped items.
	DodgeModifier(combatantKey string) int
}

// Loadout is a static equipment set for one combatant.
type Loadout struct {
	MainHand *Weapon
	OffHand  *Weapon
	Armor    []ArmorPiece
	DodgeMod int
}

// StaticEquipment is a fixed in-memory EquipmentProvider. Production wires
// the real equipment subsystem here; tests and the seed binary use this.
type StaticEquipment struct {
	Loadouts map[string]Loadout
}

func NewStaticEquipment() *StaticEquipment {
	return &StaticEquipment{Loadouts: make(map[string]Loadout)}
}

func (s *StaticEquipment) Set(key string, l Loadout) { s.Loadouts[key] = l }

func (s *StaticEquipment) WeaponFor(key string, hand Hand) (*Weapon, bool) {
	l, ok := s.Loadouts[key]
	if !ok {
		return nil, false
	}
	// A two-handed main weapon serves the off-hand slot as well.
	if hand == HandOff {
		if l.OffHand != nil {
			return l.OffHand, true
		}
		if l.MainHand != nil && l.MainHand.TwoHanded {
			return l.MainHand, true
		}
		return nil, false
	}
	if l.MainHand != nil {
		return l.MainHand, true
	}
	return nil, false
}

func (s *StaticEquipment) ArmorCovering(key string, loc BodyLocation) []ArmorPiece {
	l, ok := s.Loadouts[key]
	if !ok {
		return nil
	}
	out := make([]ArmorPiece, 0, len(l.Armor))
	for _, a := range l.Armor {
		if a.CoversLocation(loc) {
			out = append(out, a)
		}
	}
	return out
}

func (s *StaticEquipment) DodgeModifier(key string) int {
	return s.Loadouts[key].DodgeMod
}
