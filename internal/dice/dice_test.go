package dice

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRollSymmetric_Bounds(t *testing.T) {
	r := NewRoller(SeededSource(1))
	for i := 0; i < 10000; i++ {
		v := r.RollSymmetric()
		if v < -4 || v > 4 {
			t.Fatalf("roll out of range: %d", v)
		}
	}
}

func TestRollSymmetric_CoversRange(t *testing.T) {
	r := NewRoller(SeededSource(2))
	seen := make(map[int]bool)
	for i := 0; i < 100000; i++ {
		seen[r.RollSymmetric()] = true
	}
	for v := -4; v <= 4; v++ {
		if !seen[v] {
			t.Fatalf("value %d never rolled", v)
		}
	}
}

// fixedSource always returns the same face index, which makes every die
// land on the same symmetric face.
type fixedSource struct{ v int }

func (f fixedSource) Intn(n int) int { return f.v % n }

func TestRollExplodingSymmetric_TerminatesOnPathologicalSource(t *testing.T) {
	// Every die comes up plus, so each re-roll is perfect and the
	// explosion would never stop without the defensive bound.
	r := NewRoller(fixedSource{v: 5})
	v := r.RollExplodingSymmetric()
	if v != 4+4*maxExplosions {
		t.Fatalf("expected capped explosion total %d, got %d", 4+4*maxExplosions, v)
	}
}

func TestRollExplodingSymmetric_NoExplosionBelowPerfect(t *testing.T) {
	// All blank faces: sum is 0, no explosion.
	r := NewRoller(fixedSource{v: 2})
	if v := r.RollExplodingSymmetric(); v != 0 {
		t.Fatalf("expected 0, got %d", v)
	}
}

func TestRollExplodingSymmetric_NegativeExplodes(t *testing.T) {
	r := NewRoller(fixedSource{v: 0})
	v := r.RollExplodingSymmetric()
	if v != -(4 + 4*maxExplosions) {
		t.Fatalf("expected capped negative total, got %d", v)
	}
}

func TestRollDice_Sum(t *testing.T) {
	r := NewRoller(SeededSource(3))
	for i := 0; i < 1000; i++ {
		v := r.RollDice(2, 8)
		if v < 2 || v > 16 {
			t.Fatalf("2d8 out of range: %d", v)
		}
	}
}

func TestRollExplodingSymmetric_BoundsProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		r := NewRoller(SeededSource(seed))
		v := r.RollExplodingSymmetric()
		lo := -(4 + 4*maxExplosions)
		hi := 4 + 4*maxExplosions
		if v < lo || v > hi {
			rt.Fatalf("exploding roll %d outside [%d, %d]", v, lo, hi)
		}
		// Values strictly inside (-4, 4) can never be explosion results,
		// so they must be reachable plain sums.
		if v > -4 && v < 4 {
			return
		}
	})
}
