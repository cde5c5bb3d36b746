package engine

import (
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/dice"
)

// RoundDuration is the length of one combat round, used to convert the
// severity table's round counts into penalty expiries.
const RoundDuration = 3 * time.Second

// ResultBonus converts the physicality Result Value into a Success Value
// bonus.
func ResultBonus(rv int) int {
	switch {
	case rv >= 12:
		return 4
	case rv >= 8:
		return 3
	case rv >= 4:
		return 2
	case rv >= 2:
		return 1
	default:
		return 0
	}
}

// PenaltySpec describes a timed attack-value penalty to apply to the
// attacker after a bad margin.
type PenaltySpec struct {
	Amount int
	Rounds int
}

// Expiry returns when a penalty applied now runs out.
func (p PenaltySpec) Expiry(now time.Time) time.Time {
	return now.Add(time.Duration(p.Rounds) * RoundDuration)
}

// OverextensionPenalty maps a bad SV or RV margin onto the severity
// table. Margins above -3 carry no penalty.
func OverextensionPenalty(margin int) (PenaltySpec, bool) {
	switch {
	case margin <= -9:
		return PenaltySpec{Amount: -3, Rounds: 3}, true
	case margin <= -7:
		return PenaltySpec{Amount: -2, Rounds: 2}, true
	case margin <= -5:
		return PenaltySpec{Amount: -2, Rounds: 1}, true
	case margin <= -3:
		return PenaltySpec{Amount: -1, Rounds: 1}, true
	default:
		return PenaltySpec{}, false
	}
}

// damageDice is one row of the SV-to-damage table.
type damageDice struct {
	count   int
	sides   int
	divisor int
}

// svDamageTable anchors at SV 0 (d6/3), SV 6 (2d8) and SV >= 15 (d6x10);
// rows in between interpolate dice size and count.
var svDamageTable = []damageDice{
	{count: 1, sides: 6, divisor: 3}, // 0
	{count: 1, sides: 6, divisor: 2}, // 1
	{count: 1, sides: 6},             // 2
	{count: 1, sides: 8},             // 3
	{count: 1, sides: 10},            // 4
	{count: 2, sides: 6},             // 5
	{count: 2, sides: 8},             // 6
	{count: 2, sides: 10},            // 7
	{count: 3, sides: 6},             // 8
	{count: 3, sides: 8},             // 9
	{count: 3, sides: 10},            // 10
	{count: 4, sides: 8},             // 11
	{count: 5, sides: 8},             // 12
	{count: 6, sides: 8},             // 13
	{count: 8, sides: 6},             // 14
	{count: 10, sides: 6},            // 15+
}

// RollRawDamage converts a final (post-armor) SV into a raw damage roll.
func RollRawDamage(r *dice.Roller, sv int) int {
	if sv < 0 {
		return 0
	}
	if sv >= len(svDamageTable) {
		sv = len(svDamageTable) - 1
	}
	row := svDamageTable[sv]
	raw := r.RollDice(row.count, row.sides)
	if row.divisor > 1 {
		// Round up so even a glancing blow stings.
		raw = (raw + row.divisor - 1) / row.divisor
	}
	return raw
}

// DamageSplit converts a raw damage roll into the (fatigue damage,
// vitality damage, wound count) triple. Small damage is pure fatigue;
// from 7 up it starts converting into vitality damage and wounds; from 16
// up wounds scale with the excess.
func DamageSplit(raw int) (fatigue, vitality, wounds int) {
	switch {
	case raw <= 0:
		return 0, 0, 0
	case raw <= 6:
		return raw, 0, 0
	case raw <= 10:
		return raw, raw - 6, 1
	case raw <= 15:
		return raw, raw - 6, 2
	default:
		return raw, raw - 6, 3 + (raw-16)/5
	}
}

// MitigateSV reduces a success value by total armor absorption, never
// below zero.
func MitigateSV(sv, absorbed int) int {
	sv -= absorbed
	if sv < 0 {
		return 0
	}
	return sv
}
