package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// SoilSample is a generated soil cell and where it sits.
type SoilSample struct {
	Pos  components.Position
	Soil components.SoilCell
}

// GenerateSoil lays out the soil grid centered on home. Moisture and
// nutrition follow independent noise fields so neighboring cells correlate.
func GenerateSoil(cfg *config.Config, seed int64) []SoilSample {
	sc := cfg.Soil
	moisture := NewFieldNoise(seed, 3, sc.NoiseFrequency, 0.5)
	nutrition := NewFieldNoise(seed+1, 3, sc.NoiseFrequency, 0.5)
	temperature := NewFieldNoise(seed+2, 2, sc.NoiseFrequency*0.5, 0.5)

	out := make([]SoilSample, 0, sc.Cols*sc.Rows)
	halfCols := sc.Cols / 2
	halfRows := sc.Rows / 2
	for cx := -halfCols; cx < sc.Cols-halfCols; cx++ {
		for cy := -halfRows; cy < sc.Rows-halfRows; cy++ {
			fx := float64(cx)
			fy := float64(cy)
			temp := sc.TemperatureMin + temperature.Sample(fx, fy)*(sc.TemperatureMax-sc.TemperatureMin)
			out = append(out, SoilSample{
				Pos: components.Position{
					X: float32(cfg.World.HomeX + fx*sc.Spacing),
					Y: float32(cfg.World.HomeY + fy*sc.Spacing),
				},
				Soil: components.SoilCell{
					Moisture:    float32(moisture.Sample(fx, fy)),
					Temperature: float32(temp),
					Nutrition:   float32(nutrition.Sample(fx, fy)),
				},
			})
		}
	}
	return out
}

// FoodSample is a generated food source and where it sits.
type FoodSample struct {
	Pos  components.Position
	Food components.FoodSource
}

// PlaceFood scatters food sources around home, preferring noise patches.
// A location is accepted once its patch value clears the threshold or the
// placement tries run out.
func PlaceFood(cfg *config.Config, rng *rand.Rand, seed int64) []FoodSample {
	fc := cfg.Food
	patches := NewPatchNoise(seed+3, fc.PatchFrequency)
	tries := max(fc.PlacementTries, 1)

	out := make([]FoodSample, 0, fc.Count)
	for i := 0; i < fc.Count; i++ {
		var x, y float64
		for try := 0; try < tries; try++ {
			angle := rng.Float64() * 2 * math.Pi
			dist := math.Sqrt(rng.Float64()) * fc.SpawnRadius
			x = cfg.World.HomeX + math.Cos(angle)*dist
			y = cfg.World.HomeY + math.Sin(angle)*dist
			if patches.Sample(x, y) >= fc.PatchThreshold {
				break
			}
		}
		nutrition := float32(fc.NutritionMin + rng.Float64()*(fc.NutritionMax-fc.NutritionMin))
		out = append(out, FoodSample{
			Pos: components.Position{X: float32(x), Y: float32(y)},
			Food: components.FoodSource{
				NutritionValue:   nutrition,
				BaseNutrition:    nutrition,
				IsAvailable:      true,
				RegenerationTime: float32(fc.RegenerationTime),
			},
		})
	}
	return out
}
