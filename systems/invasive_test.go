package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/antnest/components"
)

func testInvasiveParams() InvasiveParams {
	return InvasiveParams{
		Max:           3,
		SpawnRate:     100,
		LifetimeMin:   15,
		LifetimeMax:   25,
		RateMin:       2,
		RateMax:       4,
		MoveSpeed:     50,
		FeedRadius:    30,
		DefenseRadius: 80,
		DefenseDrain:  1.5,
		ClusterChance: 0.3,
		ReturnBoost:   1.3,
		RegenPenalty:  2,
		MinX:          -100,
		MinY:          -100,
		MaxX:          100,
		MaxY:          100,
	}
}

func TestShouldSpawnInvasive(t *testing.T) {
	p := testInvasiveParams()
	rng := rand.New(rand.NewSource(1))

	if !ShouldSpawnInvasive(0, rng, &p, 1) {
		t.Error("certain spawn below cap should fire")
	}
	if ShouldSpawnInvasive(3, rng, &p, 1) {
		t.Error("no spawn at cap")
	}
	if ShouldSpawnInvasive(0, rng, &p, 0) {
		t.Error("no spawn while paused")
	}
}

func TestWanderInvasive(t *testing.T) {
	p := testInvasiveParams()
	rng := rand.New(rand.NewSource(2))
	pos, inv := NewInvasive(rng, &p)

	if inv.Lifetime < p.LifetimeMin || inv.Lifetime >= p.LifetimeMax {
		t.Fatalf("lifetime %v out of range", inv.Lifetime)
	}

	expired := false
	for i := 0; i < 100 && !expired; i++ {
		pos, expired = WanderInvasive(pos, &inv, rng, &p, 1)
		if pos.X < p.MinX || pos.X > p.MaxX || pos.Y < p.MinY || pos.Y > p.MaxY {
			t.Fatalf("invasive left the world: %+v", pos)
		}
	}
	if !expired {
		t.Error("invasive outlived its lifetime")
	}
}

func TestDepleteFood(t *testing.T) {
	p := testInvasiveParams()
	food := components.FoodSource{NutritionValue: 5, IsAvailable: true, RegenerationTime: 30}

	if DepleteFood(&food, 2, &p, 1) {
		t.Fatal("source should survive one second")
	}
	if food.NutritionValue != 3 {
		t.Errorf("nutrition = %v, want 3", food.NutritionValue)
	}
	if !DepleteFood(&food, 2, &p, 2) {
		t.Fatal("source should be exhausted")
	}
	if food.IsAvailable || food.NutritionValue != 0 || food.RegenerationTimer != 60 {
		t.Errorf("exhausted food = %+v", food)
	}
	if DepleteFood(&food, 2, &p, 1) {
		t.Error("unavailable food cannot be depleted again")
	}
}

func TestReactToThreat(t *testing.T) {
	p := testInvasiveParams()
	rng := rand.New(rand.NewSource(3))

	ret := ReactToThreat(components.StateReturning, rng, &p, 0.1)
	if ret.Boost != p.ReturnBoost || ret.Cluster || ret.Drain != p.DefenseDrain {
		t.Errorf("returning response = %+v", ret)
	}

	p.ClusterChance = 1000
	fr := ReactToThreat(components.StateForaging, rng, &p, 0.1)
	if !fr.Cluster || fr.Boost != 1 {
		t.Errorf("foraging response = %+v", fr)
	}

	dig := ReactToThreat(components.StateDigging, rng, &p, 0.1)
	if dig.Cluster || dig.Boost != 1 {
		t.Errorf("digging response = %+v", dig)
	}
}
