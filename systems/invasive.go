package systems

import (
	"math/rand"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// InvasiveParams holds invasive species tuning.
type InvasiveParams struct {
	Max           int
	SpawnRate     float32
	LifetimeMin   float32
	LifetimeMax   float32
	RateMin       float32
	RateMax       float32
	MoveSpeed     float32
	FeedRadius    float32
	DefenseRadius float32
	DefenseDrain  float32
	ClusterChance float32
	ReturnBoost   float32
	RegenPenalty  float32

	MinX, MinY, MaxX, MaxY float32
}

// InvasiveParamsFromConfig builds invasive parameters from configuration.
func InvasiveParamsFromConfig(cfg *config.Config) InvasiveParams {
	ic := cfg.Invasive
	return InvasiveParams{
		Max:           ic.Max,
		SpawnRate:     float32(ic.SpawnRate),
		LifetimeMin:   float32(ic.LifetimeMin),
		LifetimeMax:   float32(ic.LifetimeMax),
		RateMin:       float32(ic.RateMin),
		RateMax:       float32(ic.RateMax),
		MoveSpeed:     float32(ic.MoveSpeed),
		FeedRadius:    float32(ic.FeedRadius),
		DefenseRadius: float32(ic.DefenseRadius),
		DefenseDrain:  float32(ic.DefenseDrain),
		ClusterChance: float32(ic.ClusterChance),
		ReturnBoost:   float32(ic.ReturnBoost),
		RegenPenalty:  float32(ic.RegenPenalty),
		MinX:          cfg.Derived.MinX32,
		MinY:          cfg.Derived.MinY32,
		MaxX:          cfg.Derived.MaxX32,
		MaxY:          cfg.Derived.MaxY32,
	}
}

// ShouldSpawnInvasive reports whether a new invasive appears this tick.
// Nothing spawns at or above the cap.
func ShouldSpawnInvasive(count int, rng *rand.Rand, p *InvasiveParams, dt float32) bool {
	if count >= p.Max || dt <= 0 {
		return false
	}
	return rng.Float32() < p.SpawnRate*dt
}

// NewInvasive draws a spawn position anywhere in the world and its lifetime
// and consumption rate.
func NewInvasive(rng *rand.Rand, p *InvasiveParams) (components.Position, components.Invasive) {
	pos := components.Position{
		X: uniform(rng, p.MinX, p.MaxX),
		Y: uniform(rng, p.MinY, p.MaxY),
	}
	return pos, components.Invasive{
		Lifetime:            uniform(rng, p.LifetimeMin, p.LifetimeMax),
		FoodConsumptionRate: uniform(rng, p.RateMin, p.RateMax),
	}
}

// WanderInvasive jitters an invasive's position and counts down its lifetime.
// Returns the new position and whether the invasive has expired.
func WanderInvasive(pos components.Position, inv *components.Invasive, rng *rand.Rand, p *InvasiveParams, dt float32) (components.Position, bool) {
	step := p.MoveSpeed * dt
	next := components.Position{
		X: clamp32(pos.X+symmetric(rng, step), p.MinX, p.MaxX),
		Y: clamp32(pos.Y+symmetric(rng, step), p.MinY, p.MaxY),
	}
	inv.Lifetime -= dt
	return next, inv.Lifetime <= 0
}

// DepleteFood lets an invasive eat from an available source. A source
// emptied this way becomes unavailable and regenerates more slowly than one
// eaten by an ant. Returns true if the source was exhausted.
func DepleteFood(food *components.FoodSource, rate float32, p *InvasiveParams, dt float32) bool {
	if !food.IsAvailable || dt <= 0 {
		return false
	}
	food.NutritionValue -= rate * dt
	if food.NutritionValue > 0 {
		return false
	}
	food.NutritionValue = 0
	food.IsAvailable = false
	food.RegenerationTimer = food.RegenerationTime * p.RegenPenalty
	return true
}

// Threat is the response of an ant that has an invasive within defense range.
type Threat struct {
	Drain   float32 // extra energy per second
	Cluster bool    // ant stops and rests with its nestmates
	Boost   float32 // speed multiplier for this tick
}

// ReactToThreat decides how a threatened ant responds. Foragers may cluster,
// returning ants hurry home; all threatened ants lose extra energy.
func ReactToThreat(state components.AntState, rng *rand.Rand, p *InvasiveParams, dt float32) Threat {
	t := Threat{Drain: p.DefenseDrain, Boost: 1}
	switch state {
	case components.StateForaging:
		t.Cluster = rng.Float32() < p.ClusterChance*dt
	case components.StateReturning:
		t.Boost = p.ReturnBoost
	}
	return t
}
