package game

import "math"

// Pool arithmetic saturates instead of wrapping so a runaway effect or
// cascade can never overflow into a panic or a sign flip.

// SatAdd returns a+b clamped to the int32 range used for pool values.
func SatAdd(a, b int) int {
	s := int64(a) + int64(b)
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	if s < math.MinInt32 {
		return math.MinInt32
	}
	return int(s)
}

// ClampPool bounds a current pool value into [0, max].
func ClampPool(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
