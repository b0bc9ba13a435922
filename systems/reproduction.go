package systems

import (
	"math/rand"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// ReproductionParams holds queen and egg tuning.
type ReproductionParams struct {
	PopulationCap     int
	SoftCap           int
	ReducedFactor     float32
	EnergyThreshold   float32
	CapacityThreshold float32
	EggOffset         float32
	IncubationMin     float32
	IncubationMax     float32
	DefaultNutrition  float32

	// Hatchling ranges
	SpeedMin, SpeedMax   float32
	MaxAgeMin, MaxAgeMax float32
	MaxEnergy            float32
}

// ReproductionParamsFromConfig builds reproduction parameters from configuration.
func ReproductionParamsFromConfig(cfg *config.Config) ReproductionParams {
	return ReproductionParams{
		PopulationCap:     cfg.Population.Cap,
		SoftCap:           cfg.Population.SoftCap,
		ReducedFactor:     float32(cfg.Population.ReducedFactor),
		EnergyThreshold:   float32(cfg.Queen.EnergyThreshold),
		CapacityThreshold: float32(cfg.Queen.CapacityThreshold),
		EggOffset:         float32(cfg.Egg.Offset),
		IncubationMin:     float32(cfg.Egg.IncubationMin),
		IncubationMax:     float32(cfg.Egg.IncubationMax),
		DefaultNutrition:  float32(cfg.Soil.DefaultNutrition),
		SpeedMin:          float32(cfg.Ant.SpeedMin),
		SpeedMax:          float32(cfg.Ant.SpeedMax),
		MaxAgeMin:         float32(cfg.Ant.MaxAgeMin),
		MaxAgeMax:         float32(cfg.Ant.MaxAgeMax),
		MaxEnergy:         float32(cfg.Ant.MaxEnergy),
	}
}

// ReproductiveCapacity scales with soil nutrition and drops once the colony
// passes its soft cap.
func ReproductiveCapacity(avgNutrition float32, population int, p *ReproductionParams) float32 {
	capacity := min(avgNutrition*2, 1)
	if capacity < 0 {
		capacity = 0
	}
	if population >= p.SoftCap {
		capacity *= p.ReducedFactor
	}
	return capacity
}

// UpdateQueen advances the queen's egg timer, recomputes her capacity and
// reports whether she lays an egg this tick. The timer resets on laying.
func UpdateQueen(q *components.Queen, lc *components.Lifecycle, avgNutrition float32, population int, p *ReproductionParams, dt float32) bool {
	q.TimeSinceLastEgg += dt
	q.ReproductiveCapacity = ReproductiveCapacity(avgNutrition, population, p)

	if q.TimeSinceLastEgg < q.EggLayingInterval ||
		lc.Energy <= p.EnergyThreshold ||
		q.ReproductiveCapacity <= p.CapacityThreshold ||
		population >= p.PopulationCap {
		return false
	}

	q.TimeSinceLastEgg = 0
	q.EggsLaid++
	return true
}

// NewEgg places an egg near the queen with a random incubation time.
func NewEgg(queenPos components.Position, rng *rand.Rand, p *ReproductionParams) (components.Position, components.Egg) {
	pos := components.Position{
		X: queenPos.X + symmetric(rng, p.EggOffset),
		Y: queenPos.Y + symmetric(rng, p.EggOffset),
	}
	return pos, components.Egg{IncubationTime: uniform(rng, p.IncubationMin, p.IncubationMax)}
}

// Incubate counts an egg down and reports whether it hatches this tick.
func Incubate(egg *components.Egg, dt float32) bool {
	egg.IncubationTime -= dt
	return egg.IncubationTime <= 0
}

// Hatchling holds the randomized attributes of a newly hatched worker.
type Hatchling struct {
	Speed  float32
	MaxAge float32
	Energy float32
}

// NewHatchling draws a new worker's speed and lifespan.
func NewHatchling(rng *rand.Rand, p *ReproductionParams) Hatchling {
	return Hatchling{
		Speed:  uniform(rng, p.SpeedMin, p.SpeedMax),
		MaxAge: uniform(rng, p.MaxAgeMin, p.MaxAgeMax),
		Energy: p.MaxEnergy,
	}
}
