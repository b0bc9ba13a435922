package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/antnest/components"
)

func TestFoodRegeneratesExactlyOnce(t *testing.T) {
	food := components.FoodSource{NutritionValue: 30, BaseNutrition: 30, IsAvailable: true, RegenerationTime: 1}

	if got := ConsumeFood(&food); got != 30 {
		t.Fatalf("ConsumeFood = %v, want 30", got)
	}
	if got := ConsumeFood(&food); got != 0 {
		t.Errorf("second ConsumeFood = %v, want 0", got)
	}

	regenerated := 0
	for i := 0; i < 40; i++ {
		if RegenerateFood(&food, 0.125) {
			regenerated++
			if i != 7 {
				t.Errorf("regenerated on tick %d, want 7", i)
			}
		}
	}
	if regenerated != 1 {
		t.Errorf("regenerated %d times, want 1", regenerated)
	}
	if !food.IsAvailable || food.NutritionValue != 30 {
		t.Errorf("food after regeneration = %+v", food)
	}
}

func TestRegenerateFood_AvailableUntouched(t *testing.T) {
	food := components.FoodSource{NutritionValue: 12, BaseNutrition: 30, IsAvailable: true, RegenerationTime: 1}
	if RegenerateFood(&food, 5) {
		t.Error("available source should not regenerate")
	}
	if food.NutritionValue != 12 {
		t.Errorf("nutrition = %v, want 12", food.NutritionValue)
	}
}

func TestDriftSoilStaysInRange(t *testing.T) {
	p := &SoilDrift{MoistureDrift: 5, TemperatureDrift: 50, NutritionGain: 3, TempMin: 10, TempMax: 35}
	rng := rand.New(rand.NewSource(5))
	soil := components.SoilCell{Moisture: 0.5, Temperature: 20, Nutrition: 0.5}

	for i := 0; i < 1000; i++ {
		DriftSoil(&soil, p, rng, 0.5)
		if soil.Moisture < 0 || soil.Moisture > 1 {
			t.Fatalf("moisture %v out of range", soil.Moisture)
		}
		if soil.Temperature < p.TempMin || soil.Temperature > p.TempMax {
			t.Fatalf("temperature %v out of range", soil.Temperature)
		}
		if soil.Nutrition < 0 || soil.Nutrition > 1 {
			t.Fatalf("nutrition %v out of range", soil.Nutrition)
		}
	}
}
