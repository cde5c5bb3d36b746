// Package npc holds the deterministic decision policy for NPC spawns in
// combat. The policy is a pure function over the NPC's pools and its
// session; execution (attack resolution, fleeing) happens in the service
// layer.
package npc

import (
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/vitality"
)

// DefaultFleeThresholdPercent applies when a template carries no override.
const DefaultFleeThresholdPercent = 25

// ParryFatigueFloor: below this available fatigue the NPC conserves by
// parrying instead of dodging (dodging costs a fatigue point per attack).
const ParryFatigueFloor = 3

// Action is what the NPC pulse should do with a spawn this round.
type Action int

const (
	ActionNone Action = iota
	ActionFlee
	ActionParry
	ActionDodge
	ActionAttack
)

func (a Action) String() string {
	switch a {
	case ActionFlee:
		return "flee"
	case ActionParry:
		return "parry"
	case ActionDodge:
		return "dodge"
	case ActionAttack:
		return "attack"
	default:
		return "none"
	}
}

// Decision is one evaluated round for an NPC: a defense-mode preference
// plus, when attacking, the chosen target key.
type Decision struct {
	Action    Action
	TargetKey string
}

// Decide evaluates the rule cascade for one NPC participant. Rules are
// checked in priority order and the first match wins:
//
//  1. flee when available vitality falls to the flee threshold
//     (percent of max) or below
//  2. prefer parry when available fatigue is low, dodge otherwise
//     (defense-mode switch, evaluated alongside rule 3)
//  3. attack the first active player participant in the session
//
// With no player target left the NPC holds (the session will end or the
// spawn pulse will disengage it).
func Decide(n *game.NPCInstance, s *game.CombatSession) Decision {
	pools := n.Pools()

	availVit := vitality.Available(pools.Vitality, pools.PendingVitality)
	threshold := n.FleeThresholdPercent(DefaultFleeThresholdPercent)
	if pools.MaxVitality > 0 && availVit*100 <= threshold*pools.MaxVitality {
		return Decision{Action: ActionFlee}
	}

	defense := ActionDodge
	if vitality.Available(pools.Fatigue, pools.PendingFatigue) < ParryFatigueFloor {
		defense = ActionParry
	}

	if target := firstActivePlayer(s); target != "" {
		return Decision{Action: ActionAttack, TargetKey: target}
	}
	return Decision{Action: defense}
}

// DefenseMode reports whether the NPC should sit in parry mode right
// now, independent of whether it also attacks this round.
func DefenseMode(n *game.NPCInstance) (parry bool) {
	pools := n.Pools()
	return vitality.Available(pools.Fatigue, pools.PendingFatigue) < ParryFatigueFloor
}

func firstActivePlayer(s *game.CombatSession) string {
	if s == nil {
		return ""
	}
	for i := range s.Participants {
		p := &s.Participants[i]
		if p.Active && !game.IsNPCKey(p.CombatantKey) {
			return p.CombatantKey
		}
	}
	return ""
}
