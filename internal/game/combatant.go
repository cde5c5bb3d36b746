package game

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Skill names used by the combat core. Weapon records reference these by
// name; anything unknown resolves to level 0.
const (
	SkillUnarmed     = "unarmed"
	SkillDodge       = "dodge"
	SkillPhysicality = "physicality"
)

// Pools holds the two depletable resources of a combatant plus their
// pending (not yet reconciled) deltas. Pending values may be negative,
// which represents queued healing. Current values never leave [0, max].
type Pools struct {
	Fatigue         int `json:"fatigue"`
	MaxFatigue      int `json:"max_fatigue"`
	Vitality        int `json:"vitality"`
	MaxVitality     int `json:"max_vitality"`
	PendingFatigue  int `json:"pending_fatigue"`
	PendingVitality int `json:"pending_vitality"`
	Wounds          int `json:"wounds"`
}

// Regen bookkeeping for the passive recovery rules. Stored alongside the
// pools so the health pulse can apply interval-gated regeneration without
// extra lookups.
type RegenState struct {
	LastFatigueRegen  time.Time `json:"last_fatigue_regen"`
	LastVitalityRegen time.Time `json:"last_vitality_regen"`
}

// Combatant is the single polymorphic view of anything that can fight:
// a player character or an NPC spawn instance. Both expose the same pools
// and skills so resolution and reconciliation code has exactly one path.
type Combatant interface {
	// Key is the stable identity ("player:<uuid>" or "npc:<uuid>").
	Key() string
	DisplayName() string
	RoomID() uint
	Pools() *Pools
	Regen() *RegenState
	SkillLevel(name string) int
	IsNPC() bool
}

const (
	KeyPrefixPlayer = "player:"
	KeyPrefixNPC    = "npc:"
)

// IsNPCKey reports whether a combatant key refers to an NPC spawn.
func IsNPCKey(key string) bool { return strings.HasPrefix(key, KeyPrefixNPC) }

// CharacterSkill is one learned skill level on a player character.
type CharacterSkill struct {
	gorm.Model
	CharacterID uint   `json:"-"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
}

// PlayerCharacter is the player-backed Combatant implementation. The
// character itself (account linkage, description, inventory) is owned by
// external subsystems; this core persists only what combat mutates.
type PlayerCharacter struct {
	gorm.Model
	CharacterUUID string           `json:"character_uuid" gorm:"uniqueIndex"`
	Name          string           `json:"name"`
	Room          uint             `json:"room_id" gorm:"column:room_id;index"`
	Pool          Pools            `json:"pools" gorm:"embedded"`
	RegenAt       RegenState       `json:"regen" gorm:"embedded"`
	Skills        []CharacterSkill `json:"skills" gorm:"foreignKey:CharacterID"`

	// skillsByName is built on load; not persisted.
	skillsByName map[string]int `gorm:"-" json:"-"`
}

func (PlayerCharacter) TableName() string { return "player_characters" }

func (p *PlayerCharacter) Key() string         { return KeyPrefixPlayer + p.CharacterUUID }
func (p *PlayerCharacter) DisplayName() string { return p.Name }
func (p *PlayerCharacter) RoomID() uint        { return p.Room }
func (p *PlayerCharacter) Pools() *Pools       { return &p.Pool }
func (p *PlayerCharacter) Regen() *RegenState  { return &p.RegenAt }
func (p *PlayerCharacter) IsNPC() bool         { return false }

// SkillLevel returns the learned level for a skill, or 0 when unknown.
func (p *PlayerCharacter) SkillLevel(name string) int {
	if p.skillsByName == nil {
		p.skillsByName = make(map[string]int, len(p.Skills))
		for _, s := range p.Skills {
			p.skillsByName[strings.ToLower(s.Name)] = s.Level
		}
	}
	return p.skillsByName[strings.ToLower(name)]
}

// SetSkill upserts a skill level on the character (used by seeding and tests).
func (p *PlayerCharacter) SetSkill(name string, level int) {
	low := strings.ToLower(name)
	for i := range p.Skills {
		if strings.ToLower(p.Skills[i].Name) == low {
			p.Skills[i].Level = level
			p.skillsByName = nil
			return
		}
	}
	p.Skills = append(p.Skills, CharacterSkill{Name: low, Level: level})
	p.skillsByName = nil
}

// NPCTemplate carries the attribute block NPC spawns are stamped from.
// Max pools are derived from attributes, never stored per instance.
type NPCTemplate struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex"`
	Strength    int    `json:"strength"`
	Endurance   int    `json:"endurance"`
	Agility     int    `json:"agility"`
	Willpower   int    `json:"willpower"`
	MeleeSkill  int    `json:"melee_skill"`
	DodgeSkill  int    `json:"dodge_skill"`
	WeaponName  string `json:"weapon_name"`
	// FleeThresholdPercent overrides the default flee threshold when > 0.
	FleeThresholdPercent int `json:"flee_threshold_percent"`
}

func (NPCTemplate) TableName() string { return "npc_templates" }

// MaxFatigue derives the short-term pool from endurance.
func (t *NPCTemplate) MaxFatigue() int { return t.Endurance * 2 }

// MaxVitality derives the long-term pool from strength and endurance.
func (t *NPCTemplate) MaxVitality() int { return t.Strength + t.Endurance }

// NPCInstance is one live spawn of an NPC template.
type NPCInstance struct {
	gorm.Model
	SpawnUUID  string     `json:"spawn_uuid" gorm:"uniqueIndex"`
	TemplateID uint       `json:"template_id" gorm:"index"`
	Room       uint       `json:"room_id" gorm:"column:room_id;index"`
	Pool       Pools      `json:"pools" gorm:"embedded"`
	RegenAt    RegenState `json:"regen" gorm:"embedded"`
	Despawned  bool       `json:"despawned"`

	// Template is hydrated by storage on load; not persisted inline.
	Template *NPCTemplate `gorm:"-" json:"-"`
}

func (NPCInstance) TableName() string { return "npc_instances" }

func (n *NPCInstance) Key() string        { return KeyPrefixNPC + n.SpawnUUID }
func (n *NPCInstance) RoomID() uint       { return n.Room }
func (n *NPCInstance) Pools() *Pools      { return &n.Pool }
func (n *NPCInstance) Regen() *RegenState { return &n.RegenAt }
func (n *NPCInstance) IsNPC() bool        { return true }

func (n *NPCInstance) DisplayName() string {
	if n.Template != nil {
		return n.Template.Name
	}
	return "creature"
}

// Hydrate attaches the template and recomputes derived max pools. Current
// values are clamped into the derived bounds so a template edit between
// restarts cannot leave an instance above max.
func (n *NPCInstance) Hydrate(t *NPCTemplate) {
	n.Template = t
	n.Pool.MaxFatigue = t.MaxFatigue()
	n.Pool.MaxVitality = t.MaxVitality()
	if n.Pool.Fatigue > n.Pool.MaxFatigue {
		n.Pool.Fatigue = n.Pool.MaxFatigue
	}
	if n.Pool.Vitality > n.Pool.MaxVitality {
		n.Pool.Vitality = n.Pool.MaxVitality
	}
}

// SkillLevel maps skill names onto the template attribute block.
func (n *NPCInstance) SkillLevel(name string) int {
	if n.Template == nil {
		return 0
	}
	switch strings.ToLower(name) {
	case SkillDodge:
		return n.Template.DodgeSkill
	case SkillPhysicality:
		return n.Template.Strength
	case SkillUnarmed:
		return n.Template.MeleeSkill
	default:
		return n.Template.MeleeSkill
	}
}

// FleeThresholdPercent returns the template override or the provided default.
func (n *NPCInstance) FleeThresholdPercent(def int) int {
	if n.Template != nil && n.Template.FleeThresholdPercent > 0 {
		return n.Template.FleeThresholdPercent
	}
	return def
}
