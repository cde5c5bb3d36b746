package storage

import (
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

type Repository interface {
	// Combatants, addressed by key ("player:<uuid>" / "npc:<uuid>").
	GetCombatantByKey(key string) (game.Combatant, error)
	GetPlayerByUUID(uuid string) (*game.PlayerCharacter, error)
	GetNPCInstanceByUUID(uuid string) (*game.NPCInstance, error)
	SaveCombatant(c game.Combatant) error
	// GetPlayersInRoom returns living player characters in a room.
	GetPlayersInRoom(roomID uint) ([]game.PlayerCharacter, error)
	// GetDamagedCombatantKeys returns keys of combatants with non-zero
	// pending pools or less-than-max current pools (the health pulse
	// working set).
	GetDamagedCombatantKeys() ([]string, error)

	// Combat sessions.
	CreateSession(s *game.CombatSession) error
	UpdateSession(s *game.CombatSession) error
	GetSessionByUUID(uuid string) (*game.CombatSession, error)
	// ActiveSessionForCombatant returns nil, nil when the combatant is
	// not engaged.
	ActiveSessionForCombatant(key string) (*game.CombatSession, error)
	GetActiveSessions() ([]game.CombatSession, error)
	GetRecentSessions(limit int) ([]game.CombatSession, error)

	// Action logs (append-only).
	AppendActionLog(l *game.CombatActionLog) error
	GetActionLogs(sessionID uint) ([]game.CombatActionLog, error)

	// Status effect instances.
	ActiveEffectInstances(combatantKey string) ([]game.StatusEffectInstance, error)
	SaveEffectInstance(i *game.StatusEffectInstance) error
	// GetTickableInstanceKeys returns combatant keys holding any active
	// effect instance, including ones past expiry so the pulse can close
	// them (the effect pulse working set).
	GetTickableInstanceKeys() ([]string, error)

	// NPC templates and spawns.
	GetNPCTemplateByName(name string) (*game.NPCTemplate, error)
	GetNPCTemplateByID(id uint) (*game.NPCTemplate, error)
	CreateNPCInstance(n *game.NPCInstance) error
	GetLiveNPCInstances() ([]game.NPCInstance, error)
}
