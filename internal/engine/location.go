package engine

import "github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"

// rollHitLocation rolls the weighted d12 location table. Segment 1 opens
// a secondary sub-roll that alone can select the head; segments 2-5 are
// the torso-heavy band; the rest map to limbs.
func (e *Engine) rollHitLocation() game.BodyLocation {
	switch r := e.roller.RollDie(12); {
	case r == 1:
		if e.roller.RollDie(12) <= 4 {
			return game.LocationHead
		}
		return game.LocationTorso
	case r <= 5:
		return game.LocationTorso
	case r <= 7:
		return game.LocationRightArm
	case r <= 9:
		return game.LocationLeftArm
	case r <= 11:
		return game.LocationRightLeg
	default:
		return game.LocationLeftLeg
	}
}
