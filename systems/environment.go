package systems

import (
	"math/rand"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// SoilDrift holds the per-second random walk of soil values.
type SoilDrift struct {
	MoistureDrift    float32
	TemperatureDrift float32
	NutritionGain    float32
	TempMin, TempMax float32
}

// SoilDriftFromConfig builds drift parameters from configuration.
func SoilDriftFromConfig(cfg *config.Config) SoilDrift {
	return SoilDrift{
		MoistureDrift:    float32(cfg.Soil.MoistureDrift),
		TemperatureDrift: float32(cfg.Soil.TemperatureDrift),
		NutritionGain:    float32(cfg.Soil.NutritionGain),
		TempMin:          float32(cfg.Soil.DriftTempMin),
		TempMax:          float32(cfg.Soil.DriftTempMax),
	}
}

// DriftSoil applies one tick of natural variation to a soil cell.
func DriftSoil(soil *components.SoilCell, p *SoilDrift, rng *rand.Rand, dt float32) {
	soil.Moisture = clamp32(soil.Moisture+symmetric(rng, p.MoistureDrift)*dt, 0, 1)
	soil.Temperature = clamp32(soil.Temperature+symmetric(rng, p.TemperatureDrift)*dt, p.TempMin, p.TempMax)
	soil.Nutrition = clamp32(soil.Nutrition+p.NutritionGain*dt, 0, 1)
}

// RegenerateFood counts down an unavailable source and restores it when the
// timer runs out. Returns true on the tick the source becomes available.
func RegenerateFood(food *components.FoodSource, dt float32) bool {
	if food.IsAvailable {
		return false
	}
	if food.RegenerationTimer > 0 {
		food.RegenerationTimer -= dt
	}
	if food.RegenerationTimer > 0 {
		return false
	}
	food.RegenerationTimer = 0
	food.IsAvailable = true
	if food.BaseNutrition > 0 {
		food.NutritionValue = food.BaseNutrition
	}
	return true
}

// ConsumeFood marks a source eaten and arms its regeneration timer.
// Returns the nutrition taken, or 0 if the source was unavailable.
func ConsumeFood(food *components.FoodSource) float32 {
	if !food.IsAvailable {
		return 0
	}
	value := food.NutritionValue
	food.IsAvailable = false
	food.RegenerationTimer = food.RegenerationTime
	return value
}
