// Package events is the outbound boundary to the game's message bus.
// The combat core publishes combat lifecycle events, action records and
// skill-usage notices; broadcast, sound propagation and progression
// handling belong to the subsystems listening on the other side.
package events

import "github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"

// Skill-usage types forwarded to the progression subsystem.
const (
	UsageAttack     = "attack"
	UsageDefense    = "defense"
	UsageGatedCheck = "vitality_gate"
)

// SkillUsage is one forwarded usage notice.
type SkillUsage struct {
	CombatantKey string `json:"combatant_key"`
	Skill        string `json:"skill"`
	UsageType    string `json:"usage_type"`
	BasePoints   int    `json:"base_points"`
	Context      string `json:"context"`
}

// Bus publishes combat core outputs. Implementations must be safe for
// concurrent use; publishing must never block combat resolution.
type Bus interface {
	CombatStarted(s *game.CombatSession)
	CombatAction(s *game.CombatSession, entry *game.CombatActionLog)
	CombatEnded(s *game.CombatSession)
	SkillUsed(u SkillUsage)
}
