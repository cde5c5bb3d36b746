package events

import (
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
)

// LogBus publishes events to the structured log. It stands in for the
// game-wide message bus when this core runs standalone; the full server
// swaps in its broadcast implementation.
type LogBus struct{}

func NewLogBus() *LogBus { return &LogBus{} }

func (LogBus) CombatStarted(s *game.CombatSession) {
	logging.Info("combat started", logging.Fields{
		"session_uuid": s.SessionUUID,
		"room_id":      s.Room,
		"participants": len(s.Participants),
	})
}

func (LogBus) CombatAction(s *game.CombatSession, entry *game.CombatActionLog) {
	logging.Info("combat action", logging.Fields{
		"session_uuid":  s.SessionUUID,
		"combatant_key": entry.ActorKey,
		"target_key":    entry.TargetKey,
		"missed":        entry.Missed,
		"success_value": entry.SuccessValue,
		"raw_damage":    entry.RawDamage,
		"description":   entry.Description,
	})
}

func (LogBus) CombatEnded(s *game.CombatSession) {
	logging.Info("combat ended", logging.Fields{
		"session_uuid": s.SessionUUID,
		"end_reason":   s.EndReason,
	})
}

func (LogBus) SkillUsed(u SkillUsage) {
	logging.Info("skill used", logging.Fields{
		"combatant_key": u.CombatantKey,
		"skill":         u.Skill,
		"usage_type":    u.UsageType,
		"base_points":   u.BasePoints,
	})
}
