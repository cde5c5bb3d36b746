package storage

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

type sqliteRepository struct {
	db        *gorm.DB
	templates *templateCache
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	r := &sqliteRepository{db: db}
	r.templates = newTemplateCache(r)
	return r
}

func (r *sqliteRepository) GetCombatantByKey(key string) (game.Combatant, error) {
	switch {
	case strings.HasPrefix(key, game.KeyPrefixPlayer):
		return r.GetPlayerByUUID(strings.TrimPrefix(key, game.KeyPrefixPlayer))
	case strings.HasPrefix(key, game.KeyPrefixNPC):
		return r.GetNPCInstanceByUUID(strings.TrimPrefix(key, game.KeyPrefixNPC))
	default:
		return nil, fmt.Errorf("malformed combatant key %q", key)
	}
}

func (r *sqliteRepository) GetPlayerByUUID(uuid string) (*game.PlayerCharacter, error) {
	var p game.PlayerCharacter
	if err := r.db.Preload("Skills").Where("character_uuid = ?", uuid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetNPCInstanceByUUID(uuid string) (*game.NPCInstance, error) {
	var n game.NPCInstance
	if err := r.db.Where("spawn_uuid = ?", uuid).First(&n).Error; err != nil {
		return nil, err
	}
	t, err := r.templates.byID(n.TemplateID)
	if err != nil {
		return nil, err
	}
	n.Hydrate(t)
	return &n, nil
}

func (r *sqliteRepository) SaveCombatant(c game.Combatant) error {
	switch v := c.(type) {
	case *game.PlayerCharacter:
		return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(v).Error
	case *game.NPCInstance:
		return r.db.Save(v).Error
	default:
		return fmt.Errorf("unknown combatant type %T", c)
	}
}

func (r *sqliteRepository) GetPlayersInRoom(roomID uint) ([]game.PlayerCharacter, error) {
	var players []game.PlayerCharacter
	if err := r.db.Preload("Skills").Where("room_id = ? AND vitality > 0", roomID).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqliteRepository) GetDamagedCombatantKeys() ([]string, error) {
	cond := "pending_fatigue != 0 OR pending_vitality != 0 OR fatigue < max_fatigue OR vitality < max_vitality"

	var players []game.PlayerCharacter
	if err := r.db.Select("character_uuid").Where(cond).Find(&players).Error; err != nil {
		return nil, err
	}
	var npcs []game.NPCInstance
	if err := r.db.Select("spawn_uuid").Where("despawned = ?", false).Where(cond).Find(&npcs).Error; err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(players)+len(npcs))
	for i := range players {
		keys = append(keys, game.KeyPrefixPlayer+players[i].CharacterUUID)
	}
	for i := range npcs {
		keys = append(keys, game.KeyPrefixNPC+npcs[i].SpawnUUID)
	}
	return keys, nil
}

func (r *sqliteRepository) CreateSession(s *game.CombatSession) error {
	return r.db.Create(s).Error
}

func (r *sqliteRepository) UpdateSession(s *game.CombatSession) error {
	if err := r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error; err != nil {
		return err
	}
	// FullSaveAssociations upserts children but never removes them, so
	// penalty rows the manager pruned would resurrect on the next load.
	ids := make([]uint, 0, len(s.Participants))
	for i := range s.Participants {
		if s.Participants[i].ID != 0 {
			ids = append(ids, s.Participants[i].ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("participant_id IN ? AND expires_at <= ?", ids, time.Now()).
		Delete(&game.TimedPenalty{}).Error
}

func (r *sqliteRepository) GetSessionByUUID(uuid string) (*game.CombatSession, error) {
	var s game.CombatSession
	err := r.db.Preload("Participants.Penalties").Where("session_uuid = ?", uuid).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) ActiveSessionForCombatant(key string) (*game.CombatSession, error) {
	var p game.CombatParticipant
	err := r.db.Joins("JOIN combat_sessions ON combat_sessions.id = combat_participants.session_id").
		Where("combat_participants.combatant_key = ? AND combat_participants.active = ? AND combat_sessions.active = ?", key, true, true).
		First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s game.CombatSession
	if err := r.db.Preload("Participants.Penalties").First(&s, p.SessionID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) GetActiveSessions() ([]game.CombatSession, error) {
	var sessions []game.CombatSession
	if err := r.db.Preload("Participants.Penalties").Where("active = ?", true).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sqliteRepository) GetRecentSessions(limit int) ([]game.CombatSession, error) {
	if limit <= 0 {
		limit = 20
	}
	var sessions []game.CombatSession
	if err := r.db.Preload("Participants").
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sqliteRepository) AppendActionLog(l *game.CombatActionLog) error {
	return r.db.Create(l).Error
}

func (r *sqliteRepository) GetActionLogs(sessionID uint) ([]game.CombatActionLog, error) {
	var logs []game.CombatActionLog
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *sqliteRepository) ActiveEffectInstances(combatantKey string) ([]game.StatusEffectInstance, error) {
	var instances []game.StatusEffectInstance
	err := r.db.Where("combatant_key = ? AND active = ?", combatantKey, true).
		Order("applied_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *sqliteRepository) SaveEffectInstance(i *game.StatusEffectInstance) error {
	return r.db.Save(i).Error
}

func (r *sqliteRepository) GetTickableInstanceKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&game.StatusEffectInstance{}).
		Distinct("combatant_key").
		Where("active = ?", true).
		Pluck("combatant_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *sqliteRepository) GetNPCTemplateByName(name string) (*game.NPCTemplate, error) {
	return r.templates.byName(name)
}

func (r *sqliteRepository) GetNPCTemplateByID(id uint) (*game.NPCTemplate, error) {
	return r.templates.byID(id)
}

func (r *sqliteRepository) CreateNPCInstance(n *game.NPCInstance) error {
	return r.db.Create(n).Error
}

func (r *sqliteRepository) GetLiveNPCInstances() ([]game.NPCInstance, error) {
	var instances []game.NPCInstance
	if err := r.db.Where("despawned = ? AND vitality > 0", false).Find(&instances).Error; err != nil {
		return nil, err
	}
	for i := range instances {
		t, err := r.templates.byID(instances[i].TemplateID)
		if err != nil {
			return nil, err
		}
		instances[i].Hydrate(t)
	}
	return instances, nil
}
