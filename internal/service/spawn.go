package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
)

// SpawnNPC stamps a new spawn from a template into a room with full
// pools.
func (s *Service) SpawnNPC(templateName string, roomID uint) (*game.NPCInstance, error) {
	t, err := s.repo.GetNPCTemplateByName(templateName)
	if err != nil {
		return nil, fmt.Errorf("unknown npc template %q: %w", templateName, err)
	}

	n := &game.NPCInstance{
		SpawnUUID:  uuid.NewString(),
		TemplateID: t.ID,
		Room:       roomID,
		Pool: game.Pools{
			Fatigue: t.MaxFatigue(), MaxFatigue: t.MaxFatigue(),
			Vitality: t.MaxVitality(), MaxVitality: t.MaxVitality(),
		},
	}
	n.Hydrate(t)
	if err := s.repo.CreateNPCInstance(n); err != nil {
		return nil, fmt.Errorf("create npc instance: %w", err)
	}
	logging.Info("npc spawned", logging.Fields{"template": t.Name, "room_id": roomID, "combatant_key": n.Key()})
	return n, nil
}
