package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/antnest/components"
)

func TestAgeAndDrain_OldAnt(t *testing.T) {
	lc := components.Lifecycle{Age: 59.9, MaxAge: 60, Energy: 100, MaxEnergy: 100}

	if AgeAndDrain(&lc, 2, 0.05) {
		t.Fatalf("ant died at age %v", lc.Age)
	}
	if math.Abs(float64(lc.Age)-59.95) > 1e-4 {
		t.Errorf("age = %v, want 59.95", lc.Age)
	}

	if !AgeAndDrain(&lc, 2, 0.1) {
		t.Errorf("ant survived at age %v", lc.Age)
	}
}

func TestAgeAndDrain_Starvation(t *testing.T) {
	lc := components.Lifecycle{MaxAge: 60, Energy: 1, MaxEnergy: 100}
	if !AgeAndDrain(&lc, 2, 1) {
		t.Error("ant with no energy should die")
	}
	if lc.Energy != 0 {
		t.Errorf("energy = %v, want clamp to 0", lc.Energy)
	}
}

func TestAgeAndDrain_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		lc := components.Lifecycle{
			Age:       rng.Float32() * 50,
			MaxAge:    60,
			Energy:    rng.Float32() * 100,
			MaxEnergy: 100,
		}
		drain := rng.Float32()*20 - 10 // negative drain is a gain
		dt := rng.Float32() * 2
		AgeAndDrain(&lc, drain, dt)
		if lc.Energy < 0 || lc.Energy > lc.MaxEnergy {
			t.Fatalf("energy %v outside [0, %v]", lc.Energy, lc.MaxEnergy)
		}
		if lc.Age < 0 {
			t.Fatalf("negative age %v", lc.Age)
		}
	}
}

func TestDrainRate(t *testing.T) {
	tests := []struct {
		name  string
		eff   float32
		extra float32
		want  float32
	}{
		{"neutral", 1, 0, 2},
		{"efficient", 2, 0, 1},
		{"with disaster drain", 1, 0.5, 2.5},
		{"zero efficiency treated as neutral", 0, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DrainRate(2, components.BehaviorModifiers{EnergyEfficiency: tt.eff}, tt.extra)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("DrainRate = %v, want %v", got, tt.want)
			}
		})
	}
}
