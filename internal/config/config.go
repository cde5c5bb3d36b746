// Package config loads the game-content configuration file (effect
// definitions, NPC templates, seed characters) and the runtime settings
// taken from the environment. The config file is the single source of
// truth for content; the database never redefines it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

// Runtime holds the environment-driven settings.
type Runtime struct {
	ConfigPath   string        `env:"MORDECAI_CONFIG" envDefault:"mordecai_config.json"`
	DatabasePath string        `env:"MORDECAI_DB" envDefault:"mordecai.db"`
	ListenAddr   string        `env:"MORDECAI_ADDR" envDefault:":8080"`
	HealthPulse  time.Duration `env:"MORDECAI_HEALTH_PULSE" envDefault:"3s"`
	EffectPulse  time.Duration `env:"MORDECAI_EFFECT_PULSE" envDefault:"1s"`
	NPCPulse     time.Duration `env:"MORDECAI_NPC_PULSE" envDefault:"3s"`
}

// LoadRuntime parses runtime settings from the environment.
func LoadRuntime() (*Runtime, error) {
	var rt Runtime
	if err := env.Parse(&rt); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &rt, nil
}

type npcTemplateEntry struct {
	Name                 string `json:"name"`
	Strength             int    `json:"strength"`
	Endurance            int    `json:"endurance"`
	Agility              int    `json:"agility"`
	Willpower            int    `json:"willpower"`
	MeleeSkill           int    `json:"melee_skill"`
	DodgeSkill           int    `json:"dodge_skill"`
	WeaponName           string `json:"weapon_name"`
	FleeThresholdPercent int    `json:"flee_threshold_percent"`
}

type seedSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type seedCharacterEntry struct {
	UUID        string      `json:"uuid"`
	Name        string      `json:"name"`
	RoomID      uint        `json:"room_id"`
	MaxFatigue  int         `json:"max_fatigue"`
	MaxVitality int         `json:"max_vitality"`
	Skills      []seedSkill `json:"skills"`
}

type rawConfig struct {
	EffectList     []game.StatusEffectDefinition `json:"effect_list"`
	NPCTemplates   []npcTemplateEntry            `json:"npc_templates"`
	SeedCharacters []seedCharacterEntry          `json:"seed_characters"`
}

// LoadedConfig contains the parsed and validated content.
type LoadedConfig struct {
	Effects        []game.StatusEffectDefinition
	NPCTemplates   []game.NPCTemplate
	SeedCharacters []game.PlayerCharacter
}

// LoadConfig reads the configuration file at path. It requires the key
// `effect_list` (snake_case); NPC templates and seed characters are
// optional.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.EffectList) == 0 {
		return nil, fmt.Errorf("config file %s: effect_list is empty (provide 'effect_list' array)", path)
	}

	// Cross-entry validation: unique effect keys (case-insensitive),
	// sane stack and tick values.
	keySet := make(map[string]struct{}, len(rc.EffectList))
	for _, d := range rc.EffectList {
		key := strings.ToLower(strings.TrimSpace(d.Key))
		if key == "" {
			return nil, fmt.Errorf("config file %s: effect entry missing 'key'", path)
		}
		if _, exists := keySet[key]; exists {
			return nil, fmt.Errorf("config file %s: duplicate effect key '%s'", path, d.Key)
		}
		keySet[key] = struct{}{}
		if d.Stackable && d.MaxStacks < 1 {
			return nil, fmt.Errorf("config file %s: effect '%s' stackable but max_stacks < 1", path, d.Key)
		}
		if d.TickSeconds < 0 || d.DefaultDurationSeconds < 0 {
			return nil, fmt.Errorf("config file %s: effect '%s' has negative timing", path, d.Key)
		}
	}

	templates := make([]game.NPCTemplate, 0, len(rc.NPCTemplates))
	nameSet := make(map[string]struct{}, len(rc.NPCTemplates))
	for _, t := range rc.NPCTemplates {
		if t.Name == "" {
			return nil, fmt.Errorf("config file %s: npc template missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(t.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate npc template '%s'", path, t.Name)
		}
		nameSet[ln] = struct{}{}
		if t.Strength <= 0 || t.Endurance <= 0 {
			return nil, fmt.Errorf("config file %s: npc template '%s' needs positive strength and endurance", path, t.Name)
		}
		templates = append(templates, game.NPCTemplate{
			Name:                 t.Name,
			Strength:             t.Strength,
			Endurance:            t.Endurance,
			Agility:              t.Agility,
			Willpower:            t.Willpower,
			MeleeSkill:           t.MeleeSkill,
			DodgeSkill:           t.DodgeSkill,
			WeaponName:           t.WeaponName,
			FleeThresholdPercent: t.FleeThresholdPercent,
		})
	}

	chars := make([]game.PlayerCharacter, 0, len(rc.SeedCharacters))
	for _, c := range rc.SeedCharacters {
		if c.UUID == "" || c.Name == "" {
			return nil, fmt.Errorf("config file %s: seed character needs 'uuid' and 'name'", path)
		}
		pc := game.PlayerCharacter{
			CharacterUUID: c.UUID,
			Name:          c.Name,
			Room:          c.RoomID,
			Pool: game.Pools{
				Fatigue: c.MaxFatigue, MaxFatigue: c.MaxFatigue,
				Vitality: c.MaxVitality, MaxVitality: c.MaxVitality,
			},
		}
		for _, s := range c.Skills {
			pc.SetSkill(s.Name, s.Level)
		}
		chars = append(chars, pc)
	}

	return &LoadedConfig{
		Effects:        rc.EffectList,
		NPCTemplates:   templates,
		SeedCharacters: chars,
	}, nil
}
