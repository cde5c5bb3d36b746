package game

import (
	"time"

	"gorm.io/gorm"
)

// EffectCategory groups status effect definitions by role.
type EffectCategory string

const (
	CategoryWound          EffectCategory = "wound"
	CategoryBuff           EffectCategory = "buff"
	CategoryDebuff         EffectCategory = "debuff"
	CategoryDamageOverTime EffectCategory = "damage_over_time"
	CategoryHealOverTime   EffectCategory = "heal_over_time"
	CategoryStatus         EffectCategory = "status"
)

// ImpactKind enumerates the typed modifiers an effect can carry.
type ImpactKind string

const (
	ImpactAttribute        ImpactKind = "attribute"
	ImpactSkill            ImpactKind = "skill"
	ImpactAttackValue      ImpactKind = "attack_value"
	ImpactDefenseValue     ImpactKind = "defense_value"
	ImpactMaxFatigue       ImpactKind = "max_fatigue"
	ImpactMaxVitality      ImpactKind = "max_vitality"
	ImpactFatigueDamage    ImpactKind = "fatigue_damage"
	ImpactVitalityDamage   ImpactKind = "vitality_damage"
	ImpactFatigueHeal      ImpactKind = "fatigue_heal"
	ImpactVitalityHeal     ImpactKind = "vitality_heal"
	ImpactDamageDealt      ImpactKind = "damage_dealt_percent"
	ImpactDamageReceived   ImpactKind = "damage_received_percent"
	ImpactPreventMovement  ImpactKind = "prevent_movement"
	ImpactPreventSpellcast ImpactKind = "prevent_spellcast"
	ImpactPreventAction    ImpactKind = "prevent_action"
	ImpactInvisibility     ImpactKind = "invisibility"
)

// Impact is one typed modifier inside an effect definition. Target names
// the attribute or skill for those kinds and is empty otherwise.
type Impact struct {
	Kind               ImpactKind `json:"kind"`
	Target             string     `json:"target"`
	Amount             int        `json:"amount"`
	ScaleWithIntensity bool       `json:"scale_with_intensity"`
}

// StatusEffectDefinition describes an effect as seeded by content. These
// are resolved once at startup into an immutable registry; the database
// never drives them.
type StatusEffectDefinition struct {
	Key                    string         `json:"key"`
	Name                   string         `json:"name"`
	Category               EffectCategory `json:"category"`
	Stackable              bool           `json:"stackable"`
	MaxStacks              int            `json:"max_stacks"`
	TickSeconds            int            `json:"tick_seconds"`
	DefaultDurationSeconds int            `json:"default_duration_seconds"`
	DefaultIntensity       int            `json:"default_intensity"`
	Impacts                []Impact       `json:"impacts"`
}

// Permanent reports whether the definition's default duration means
// "no expiry" (a default of exactly 0 is permanent by convention).
func (d *StatusEffectDefinition) Permanent() bool { return d.DefaultDurationSeconds == 0 }

// TickInterval returns the periodic interval, or 0 when the effect has no
// periodic component.
func (d *StatusEffectDefinition) TickInterval() time.Duration {
	return time.Duration(d.TickSeconds) * time.Second
}

// StatusEffectInstance is one live application of a definition to a
// combatant. Wound instances additionally carry a body location tag.
type StatusEffectInstance struct {
	gorm.Model
	CombatantKey string       `json:"combatant_key" gorm:"index"`
	EffectKey    string       `json:"effect_key" gorm:"index"`
	Stacks       int          `json:"stacks"`
	Intensity    int          `json:"intensity"`
	AppliedAt    time.Time    `json:"applied_at"`
	ExpiresAt    *time.Time   `json:"expires_at"`
	LastTickAt   *time.Time   `json:"last_tick_at"`
	Location     BodyLocation `json:"location"`
	Active       bool         `json:"active" gorm:"index"`
}

func (StatusEffectInstance) TableName() string { return "status_effect_instances" }

// Expired reports whether the instance has an expiry in the past.
func (i *StatusEffectInstance) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !i.ExpiresAt.After(now)
}

// EffectSummary is the aggregate of every active effect on a combatant,
// consumed by attack resolution and the availability gate.
type EffectSummary struct {
	Attributes            map[string]int
	Skills                map[string]int
	AttackValue           int
	DefenseValue          int
	MaxFatigue            int
	MaxVitality           int
	DamageDealtPercent    int
	DamageReceivedPercent int
	CanMove               bool
	CanCast               bool
	CanAct                bool
	Invisible             bool
	WoundStacks           int
	WoundsByLocation      map[BodyLocation]int
}

// NewEffectSummary returns a summary with the permissive defaults.
func NewEffectSummary() *EffectSummary {
	return &EffectSummary{
		Attributes:       make(map[string]int),
		Skills:           make(map[string]int),
		CanMove:          true,
		CanCast:          true,
		CanAct:           true,
		WoundsByLocation: make(map[BodyLocation]int),
	}
}
