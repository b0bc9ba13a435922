package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/antnest/components"
)

func testReproductionParams() ReproductionParams {
	return ReproductionParams{
		PopulationCap:     50,
		SoftCap:           20,
		ReducedFactor:     0.3,
		EnergyThreshold:   50,
		CapacityThreshold: 0.3,
		EggOffset:         5,
		IncubationMin:     8,
		IncubationMax:     15,
		SpeedMin:          10,
		SpeedMax:          20,
		MaxAgeMin:         30,
		MaxAgeMax:         60,
		MaxEnergy:         100,
	}
}

func TestQueenLaysOneEggAfterInterval(t *testing.T) {
	p := testReproductionParams()
	rng := rand.New(rand.NewSource(1))
	q := components.Queen{ReproductiveCapacity: 1, EggLayingInterval: 10}
	lc := components.Lifecycle{Energy: 200, MaxEnergy: 200, MaxAge: 300}
	queenPos := components.Position{X: 3, Y: -2}

	eggs := 0
	var eggPos components.Position
	for tick := 0; tick < 80; tick++ {
		if UpdateQueen(&q, &lc, 0.8, 5, &p, 0.125) {
			eggs++
			eggPos, _ = NewEgg(queenPos, rng, &p)
			if tick != 79 {
				t.Errorf("egg laid on tick %d, want 79", tick)
			}
		}
	}

	if eggs != 1 {
		t.Fatalf("eggs = %d, want 1", eggs)
	}
	if q.TimeSinceLastEgg != 0 {
		t.Errorf("time since last egg = %v, want 0", q.TimeSinceLastEgg)
	}
	if q.EggsLaid != 1 {
		t.Errorf("eggs laid = %d, want 1", q.EggsLaid)
	}
	dx := eggPos.X - queenPos.X
	dy := eggPos.Y - queenPos.Y
	if dx < -p.EggOffset || dx > p.EggOffset || dy < -p.EggOffset || dy > p.EggOffset {
		t.Errorf("egg at %+v is outside the offset of queen at %+v", eggPos, queenPos)
	}
}

func TestUpdateQueen_Gates(t *testing.T) {
	p := testReproductionParams()
	tests := []struct {
		name       string
		energy     float32
		nutrition  float32
		population int
		want       bool
	}{
		{"all conditions met", 200, 0.8, 5, true},
		{"low energy", 50, 0.8, 5, false},
		{"poor soil", 200, 0.1, 5, false},
		{"over soft cap", 200, 0.8, 25, false},
		{"at population cap", 200, 0.8, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := components.Queen{EggLayingInterval: 10, TimeSinceLastEgg: 10}
			lc := components.Lifecycle{Energy: tt.energy, MaxEnergy: 200}
			if got := UpdateQueen(&q, &lc, tt.nutrition, tt.population, &p, 0); got != tt.want {
				t.Errorf("UpdateQueen = %v, want %v (capacity %v)", got, tt.want, q.ReproductiveCapacity)
			}
		})
	}
}

func TestReproductiveCapacity(t *testing.T) {
	p := testReproductionParams()
	tests := []struct {
		nutrition float32
		pop       int
		want      float32
	}{
		{0.8, 5, 1},
		{0.25, 5, 0.5},
		{0.8, 20, 0.3},
		{-1, 5, 0},
	}
	for _, tt := range tests {
		got := ReproductiveCapacity(tt.nutrition, tt.pop, &p)
		if got < tt.want-1e-5 || got > tt.want+1e-5 {
			t.Errorf("ReproductiveCapacity(%v, %d) = %v, want %v", tt.nutrition, tt.pop, got, tt.want)
		}
	}
}

func TestIncubateAndHatch(t *testing.T) {
	p := testReproductionParams()
	rng := rand.New(rand.NewSource(8))
	_, egg := NewEgg(components.Position{}, rng, &p)
	if egg.IncubationTime < p.IncubationMin || egg.IncubationTime >= p.IncubationMax {
		t.Fatalf("incubation %v outside [%v, %v)", egg.IncubationTime, p.IncubationMin, p.IncubationMax)
	}

	ticks := 0
	for !Incubate(&egg, 1) {
		ticks++
		if ticks > 20 {
			t.Fatal("egg never hatched")
		}
	}

	h := NewHatchling(rng, &p)
	if h.Speed < p.SpeedMin || h.Speed >= p.SpeedMax || h.MaxAge < p.MaxAgeMin || h.MaxAge >= p.MaxAgeMax {
		t.Errorf("hatchling out of range: %+v", h)
	}
	if h.Energy != p.MaxEnergy {
		t.Errorf("hatchling energy = %v, want full", h.Energy)
	}
}
