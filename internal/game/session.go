package game

import (
	"time"

	"gorm.io/gorm"
)

// Session end reasons written when a combat session closes.
const (
	EndReasonDeath     = "A combatant died"
	EndReasonOneFled   = "One participant fled"
	EndReasonAbandoned = "No active participants remain"
)

// Participant leave reasons.
const (
	LeaveReasonFled = "Fled"
	LeaveReasonDied = "Died"
)

// CombatSession is one multi-party combat encounter in a single room.
type CombatSession struct {
	gorm.Model
	SessionUUID  string              `json:"session_uuid" gorm:"uniqueIndex"`
	Room         uint                `json:"room_id" gorm:"column:room_id;index"`
	Active       bool                `json:"active" gorm:"index"`
	StartedAt    time.Time           `json:"started_at"`
	EndedAt      *time.Time          `json:"ended_at"`
	EndReason    string              `json:"end_reason"`
	Participants []CombatParticipant `json:"participants" gorm:"foreignKey:SessionID"`
	Logs         []CombatActionLog   `json:"-" gorm:"foreignKey:SessionID"`
}

func (CombatSession) TableName() string { return "combat_sessions" }

// ActiveParticipants counts participants still engaged.
func (s *CombatSession) ActiveParticipants() int {
	n := 0
	for i := range s.Participants {
		if s.Participants[i].Active {
			n++
		}
	}
	return n
}

// ParticipantFor returns the participant record for a combatant key.
func (s *CombatSession) ParticipantFor(key string) *CombatParticipant {
	for i := range s.Participants {
		if s.Participants[i].CombatantKey == key {
			return &s.Participants[i]
		}
	}
	return nil
}

// CombatParticipant ties exactly one combatant (player xor NPC) into a
// session, with its per-session defense mode and timed penalties.
type CombatParticipant struct {
	gorm.Model
	SessionID     uint           `json:"-" gorm:"index"`
	CombatantKey  string         `json:"combatant_key" gorm:"index"`
	PlayerID      *uint          `json:"player_id"`
	NPCInstanceID *uint          `json:"npc_instance_id"`
	Active        bool           `json:"active"`
	ParryMode     bool           `json:"parry_mode"`
	Penalties     []TimedPenalty `json:"penalties" gorm:"foreignKey:ParticipantID"`
	JoinedAt      time.Time      `json:"joined_at"`
	LeftAt        *time.Time     `json:"left_at"`
	LeaveReason   string         `json:"leave_reason"`
}

func (CombatParticipant) TableName() string { return "combat_participants" }

// ActivePenaltySum returns the sum of unexpired penalty amounts and prunes
// expired entries in place. Callers persist the participant afterwards.
func (p *CombatParticipant) ActivePenaltySum(now time.Time) int {
	sum := 0
	kept := p.Penalties[:0]
	for _, pen := range p.Penalties {
		if pen.ExpiresAt.After(now) {
			sum += pen.Amount
			kept = append(kept, pen)
		}
	}
	p.Penalties = kept
	return sum
}

// TimedPenalty is one attack-value penalty with an expiry. Stored as a
// first-class row so it stays queryable (no serialized blobs).
type TimedPenalty struct {
	gorm.Model
	ParticipantID uint      `json:"-" gorm:"index"`
	Amount        int       `json:"amount"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"index"`
}

func (TimedPenalty) TableName() string { return "timed_penalties" }

// CombatActionLog is the append-only record of one resolved action.
type CombatActionLog struct {
	gorm.Model
	SessionID       uint         `json:"-" gorm:"index"`
	ActorKey        string       `json:"actor_key"`
	TargetKey       string       `json:"target_key"`
	AttackRoll      int          `json:"attack_roll"`
	DefenseRoll     int          `json:"defense_roll"`
	PhysicalityRoll int          `json:"physicality_roll"`
	AttackValue     int          `json:"attack_value"`
	DefenseValue    int          `json:"defense_value"`
	SuccessValue    int          `json:"success_value"`
	ResultValue     int          `json:"result_value"`
	HitLocation     BodyLocation `json:"hit_location"`
	Absorbed        int          `json:"absorbed"`
	RawDamage       int          `json:"raw_damage"`
	FatigueDamage   int          `json:"fatigue_damage"`
	VitalityDamage  int          `json:"vitality_damage"`
	Wounds          int          `json:"wounds"`
	Missed          bool         `json:"missed"`
	Description     string       `json:"description"`
}

func (CombatActionLog) TableName() string { return "combat_action_logs" }
