package engine

import "github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"

// TotalAbsorption sums the absorption of every non-broken armor piece for
// the given damage type. A weapon whose damage class exceeds a piece's
// class bypasses that piece point-for-point on the class gap; a single
// piece never absorbs below zero.
func TotalAbsorption(pieces []game.ArmorPiece, dtype game.DamageType, weaponClass int) int {
	total := 0
	for i := range pieces {
		p := &pieces[i]
		if p.Broken {
			continue
		}
		absorb := p.Absorption[dtype]
		if gap := weaponClass - p.DamageClass; gap > 0 {
			absorb -= gap
		}
		if absorb > 0 {
			total += absorb
		}
	}
	return total
}

// absorptionAt gathers the defender's armor over a location and totals it.
func (e *Engine) absorptionAt(defenderKey string, loc game.BodyLocation, dtype game.DamageType, weaponClass int) int {
	return TotalAbsorption(e.equipment.ArmorCovering(defenderKey, loc), dtype, weaponClass)
}
