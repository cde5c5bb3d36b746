package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mordecai_config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Minimal(t *testing.T) {
	path := writeConfig(t, `{
		"effect_list": [
			{"key": "wound", "name": "Wound", "category": "wound", "stackable": true, "max_stacks": 20}
		],
		"npc_templates": [
			{"name": "wolf", "strength": 8, "endurance": 8, "melee_skill": 6, "dodge_skill": 5}
		],
		"seed_characters": [
			{"uuid": "u1", "name": "Tester", "room_id": 3, "max_fatigue": 10, "max_vitality": 12,
			 "skills": [{"name": "unarmed", "level": 7}]}
		]
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Effects) != 1 || cfg.Effects[0].Key != "wound" {
		t.Fatalf("effects: %+v", cfg.Effects)
	}
	if len(cfg.NPCTemplates) != 1 || cfg.NPCTemplates[0].MaxFatigue() != 16 {
		t.Fatalf("templates: %+v", cfg.NPCTemplates)
	}
	if len(cfg.SeedCharacters) != 1 {
		t.Fatalf("characters: %+v", cfg.SeedCharacters)
	}
	c := cfg.SeedCharacters[0]
	if c.Pool.Fatigue != 10 || c.Pool.Vitality != 12 || c.SkillLevel("unarmed") != 7 {
		t.Fatalf("seed character: %+v", c)
	}
}

func TestLoadConfig_RequiresEffects(t *testing.T) {
	path := writeConfig(t, `{"effect_list": []}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for empty effect_list")
	}
}

func TestLoadConfig_RejectsDuplicateEffectKeys(t *testing.T) {
	path := writeConfig(t, `{
		"effect_list": [
			{"key": "poison", "name": "Poison", "category": "damage_over_time"},
			{"key": "Poison", "name": "Poison Again", "category": "damage_over_time"}
		]
	}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for duplicate effect key")
	}
}

func TestLoadConfig_RejectsStackableWithoutMax(t *testing.T) {
	path := writeConfig(t, `{
		"effect_list": [
			{"key": "poison", "name": "Poison", "category": "damage_over_time", "stackable": true}
		]
	}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for stackable effect without max_stacks")
	}
}

func TestLoadConfig_RejectsBadTemplate(t *testing.T) {
	path := writeConfig(t, `{
		"effect_list": [{"key": "wound", "name": "Wound", "category": "wound", "stackable": true, "max_stacks": 5}],
		"npc_templates": [{"name": "ghost", "strength": 0, "endurance": 5}]
	}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for non-positive strength")
	}
}
