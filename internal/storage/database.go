package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
)

func OpenAndMigrate(dataSourceName string, templatesFromConfig []game.NPCTemplate, charactersFromConfig []game.PlayerCharacter) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&game.PlayerCharacter{}, &game.CharacterSkill{},
		&game.NPCTemplate{}, &game.NPCInstance{},
		&game.CombatSession{}, &game.CombatParticipant{}, &game.TimedPenalty{},
		&game.CombatActionLog{}, &game.StatusEffectInstance{},
	)
	if err != nil {
		return nil, err
	}

	seedNPCTemplates(db, templatesFromConfig)
	seedCharacters(db, charactersFromConfig)
	return db, nil
}

// seedNPCTemplates upserts config templates by name. The config file is
// the source of truth: attribute edits there overwrite existing rows on
// the next start, while spawns keep pointing at the same template IDs.
func seedNPCTemplates(db *gorm.DB, templatesFromConfig []game.NPCTemplate) {
	for _, t := range templatesFromConfig {
		var existing game.NPCTemplate
		err := db.Where("name = ?", t.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&t).Error; err != nil {
				logging.Error("failed to seed npc template", err, logging.Fields{"template": t.Name})
			}
			continue
		}
		if err != nil {
			logging.Error("failed to look up npc template", err, logging.Fields{"template": t.Name})
			continue
		}
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		if err := db.Save(&t).Error; err != nil {
			logging.Error("failed to update npc template", err, logging.Fields{"template": t.Name})
		}
	}
}

// seedCharacters inserts config characters that are not in the database
// yet. Unlike templates these are live records once created (combat
// mutates their pools), so existing rows are left alone.
func seedCharacters(db *gorm.DB, charactersFromConfig []game.PlayerCharacter) {
	for _, c := range charactersFromConfig {
		var count int64
		db.Model(&game.PlayerCharacter{}).Where("character_uuid = ?", c.CharacterUUID).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			logging.Error("failed to seed character", err, logging.Fields{"name": c.Name})
		}
	}
}
