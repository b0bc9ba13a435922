package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/antnest/components"
)

func TestStepToward(t *testing.T) {
	tests := []struct {
		name    string
		pos     components.Position
		target  components.Position
		step    float32
		want    components.Position
		arrived bool
	}{
		{"partial step", components.Position{X: 0, Y: 0}, components.Position{X: 10, Y: 0}, 4, components.Position{X: 4, Y: 0}, false},
		{"no overshoot", components.Position{X: 0, Y: 0}, components.Position{X: 3, Y: 4}, 20, components.Position{X: 3, Y: 4}, false},
		{"within arrival distance", components.Position{X: 0, Y: 0}, components.Position{X: 0.5, Y: 0.5}, 5, components.Position{X: 0, Y: 0}, true},
		{"zero step", components.Position{X: 1, Y: 1}, components.Position{X: 10, Y: 10}, 0, components.Position{X: 1, Y: 1}, false},
		{"diagonal", components.Position{X: 0, Y: 0}, components.Position{X: 30, Y: 40}, 5, components.Position{X: 3, Y: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, arrived := StepToward(tt.pos, tt.target, tt.step, 1)
			if arrived != tt.arrived {
				t.Errorf("arrived = %v, want %v", arrived, tt.arrived)
			}
			if math.Abs(float64(got.X-tt.want.X)) > 1e-4 || math.Abs(float64(got.Y-tt.want.Y)) > 1e-4 {
				t.Errorf("StepToward = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBeginCarryClampsEnergy(t *testing.T) {
	b := components.AntBehavior{State: components.StateForaging, Home: components.Position{X: 5, Y: -5}}
	inv := components.Inventory{}
	lc := components.Lifecycle{Energy: 90, MaxEnergy: 100}

	BeginCarry(&b, &inv, &lc, 30)

	if lc.Energy != 100 {
		t.Errorf("energy = %v, want clamp to 100", lc.Energy)
	}
	if inv.CarriedFood != 30 {
		t.Errorf("carried = %v, want 30", inv.CarriedFood)
	}
	if b.State != components.StateCarryingFood || !b.HasTarget || b.Target != b.Home {
		t.Errorf("behavior after pickup = %+v", b)
	}
}

func TestArrive(t *testing.T) {
	t.Run("carrier delivers and resumes foraging", func(t *testing.T) {
		b := components.AntBehavior{State: components.StateCarryingFood, HasTarget: true}
		inv := components.Inventory{CarriedFood: 25}
		got := Arrive(&b, &inv, 5)
		if got != 25 || inv.CarriedFood != 0 {
			t.Errorf("delivered %v, left %v", got, inv.CarriedFood)
		}
		if b.State != components.StateForaging || b.HasTarget {
			t.Errorf("state = %v hasTarget = %v", b.State, b.HasTarget)
		}
	})

	t.Run("returning ant rests", func(t *testing.T) {
		b := components.AntBehavior{State: components.StateReturning, HasTarget: true}
		inv := components.Inventory{}
		if got := Arrive(&b, &inv, 5); got != 0 {
			t.Errorf("delivered %v, want 0", got)
		}
		if b.State != components.StateResting || b.StateTimer != 5 {
			t.Errorf("state = %v timer = %v", b.State, b.StateTimer)
		}
	})

	t.Run("forager just clears target", func(t *testing.T) {
		b := components.AntBehavior{State: components.StateForaging, HasTarget: true}
		inv := components.Inventory{}
		Arrive(&b, &inv, 5)
		if b.State != components.StateForaging || b.HasTarget {
			t.Errorf("state = %v hasTarget = %v", b.State, b.HasTarget)
		}
	})
}

func TestTickTimedState(t *testing.T) {
	b := components.AntBehavior{}
	BeginDig(&b, 1)

	if TickTimedState(&b, 0.5) {
		t.Fatal("dig should not finish after 0.5s")
	}
	if !TickTimedState(&b, 0.5) {
		t.Fatal("dig should finish after 1s")
	}
	if b.State != components.StateForaging || b.StateTimer != 0 {
		t.Errorf("state = %v timer = %v", b.State, b.StateTimer)
	}

	b.State = components.StateCarryingFood
	if TickTimedState(&b, 10) {
		t.Error("untimed state should be ignored")
	}
}

func TestFeed(t *testing.T) {
	tests := []struct {
		name      string
		energy    float32
		store     float64
		wantTaken float32
		wantStore float64
	}{
		{"rate limited", 50, 100, 10, 90},
		{"store limited", 50, 4, 4, 0},
		{"capacity limited", 97, 100, 3, 97},
		{"empty store", 50, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := components.Lifecycle{Energy: tt.energy, MaxEnergy: 100}
			store := tt.store
			got := Feed(&lc, &store, 10, 1)
			if math.Abs(float64(got-tt.wantTaken)) > 1e-4 {
				t.Errorf("taken = %v, want %v", got, tt.wantTaken)
			}
			if math.Abs(store-tt.wantStore) > 1e-4 {
				t.Errorf("store = %v, want %v", store, tt.wantStore)
			}
			if lc.Energy > lc.MaxEnergy {
				t.Errorf("energy %v exceeds max", lc.Energy)
			}
		})
	}
}

func TestEffectiveSpeedClamps(t *testing.T) {
	mods := components.BehaviorModifiers{Speed: 1.1}
	if got := EffectiveSpeed(10, mods, 5, 50); math.Abs(float64(got-11)) > 1e-4 {
		t.Errorf("EffectiveSpeed = %v, want 11", got)
	}
	if got := EffectiveSpeed(100, mods, 5, 50); got != 50 {
		t.Errorf("EffectiveSpeed = %v, want clamp 50", got)
	}
	if got := EffectiveSpeed(1, mods, 5, 50); got != 5 {
		t.Errorf("EffectiveSpeed = %v, want clamp 5", got)
	}

	// Repeated recompute from the base never compounds.
	speed := float32(10)
	for i := 0; i < 100; i++ {
		speed = EffectiveSpeed(10, mods, 5, 50)
	}
	if math.Abs(float64(speed-11)) > 1e-4 {
		t.Errorf("speed drifted to %v", speed)
	}
}

func TestRandomForageTargetStaysInWorld(t *testing.T) {
	p := &BehaviorParams{TargetRange: 50, MinX: -10, MinY: -10, MaxX: 10, MaxY: 10}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		got := RandomForageTarget(components.Position{X: 8, Y: -8}, rng, p)
		if got.X < p.MinX || got.X > p.MaxX || got.Y < p.MinY || got.Y > p.MaxY {
			t.Fatalf("target %+v outside world", got)
		}
	}
}

func TestShouldDig(t *testing.T) {
	p := &BehaviorParams{DigChance: 1000}
	rng := rand.New(rand.NewSource(1))

	if ShouldDig(components.RoleForager, PhaseColonyExpansion, rng, p, 1) {
		t.Error("foragers never dig")
	}
	if ShouldDig(components.RoleNestMaintainer, PhaseQueenFounding, rng, p, 1) {
		t.Error("no digging during founding")
	}
	if !ShouldDig(components.RoleNestMaintainer, PhaseColonyExpansion, rng, p, 1) {
		t.Error("maintainer with certain chance should dig")
	}
}
