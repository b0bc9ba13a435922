package telemetry

import (
	"strings"

	"github.com/pthm-cable/antnest/components"
)

// DeathCause records why an ant died.
type DeathCause uint8

const (
	DeathOldAge DeathCause = iota
	DeathStarved
)

// String returns the metric label for the cause.
func (c DeathCause) String() string {
	if c == DeathStarved {
		return "starved"
	}
	return "old_age"
}

// ColonySample is the end-of-window colony state the game hands to Flush.
type ColonySample struct {
	Tick    int64
	SimTime float64
	Day     float64

	Phase         string
	PhaseProgress float64

	Workers    int
	Eggs       int
	QueenAlive bool
	Invasives  int
	Structures int

	FoodAvailable int
	FoodTotal     int
	FoodStore     float64

	States [components.NumAntStates]int

	Energies []float64
	Ages     []float64

	Moisture    []float64
	Temperature []float64
	Nutrition   []float64

	ActiveDisasters []string
}

// Collector accumulates events within windows of simulated time and
// produces WindowStats.
type Collector struct {
	windowSec float64

	// Current window tracking
	windowStartTick int64
	windowStartTime float64

	// Event counters for current window
	eggsLaid      int
	hatched       int
	deathsAge     int
	deathsStarved int
	pickups       int
	foodDelivered float64
	foodEaten     float64
	transitions   int
}

// NewCollector creates a new stats collector.
// windowSec: how long each stats window lasts in simulated seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 10
	}
	return &Collector{windowSec: windowSec}
}

// RecordEggLaid records an egg laid by the queen.
func (c *Collector) RecordEggLaid() {
	c.eggsLaid++
}

// RecordHatch records an egg hatching into a worker.
func (c *Collector) RecordHatch() {
	c.hatched++
}

// RecordDeath records an ant death.
func (c *Collector) RecordDeath(cause DeathCause) {
	if cause == DeathStarved {
		c.deathsStarved++
	} else {
		c.deathsAge++
	}
}

// RecordPickup records a forager picking up food.
func (c *Collector) RecordPickup() {
	c.pickups++
}

// RecordDelivery records food delivered to the colony store.
func (c *Collector) RecordDelivery(amount float32) {
	c.foodDelivered += float64(amount)
}

// RecordInvasiveFeeding records food eaten by invasive species.
func (c *Collector) RecordInvasiveFeeding(amount float32) {
	c.foodEaten += float64(amount)
}

// RecordTransition records a colony phase transition.
func (c *Collector) RecordTransition() {
	c.transitions++
}

// ShouldFlush returns true once a full window of simulated time has passed.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(s ColonySample) WindowStats {
	energy := ComputeDistribution(s.Energies)
	_, ageMean, _ := Range(s.Ages)
	moistMin, moistMean, moistMax := Range(s.Moisture)
	_, tempMean, _ := Range(s.Temperature)
	_, nutMean, _ := Range(s.Nutrition)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   s.Tick,
		SimTimeSec:      s.SimTime,
		Day:             s.Day,

		Phase:         s.Phase,
		PhaseProgress: s.PhaseProgress,

		Workers:    s.Workers,
		Eggs:       s.Eggs,
		QueenAlive: s.QueenAlive,
		Invasives:  s.Invasives,
		Structures: s.Structures,

		EggsLaid:      c.eggsLaid,
		Hatched:       c.hatched,
		DeathsAge:     c.deathsAge,
		DeathsStarved: c.deathsStarved,
		Pickups:       c.pickups,
		FoodDelivered: c.foodDelivered,
		FoodEaten:     c.foodEaten,
		Transitions:   c.transitions,

		FoodAvailable: s.FoodAvailable,
		FoodTotal:     s.FoodTotal,
		FoodStore:     s.FoodStore,

		Foraging:  s.States[components.StateForaging],
		Returning: s.States[components.StateReturning],
		Resting:   s.States[components.StateResting],
		Digging:   s.States[components.StateDigging],
		Carrying:  s.States[components.StateCarryingFood],

		EnergyMean: energy.Mean,
		EnergyStd:  energy.Std,
		EnergyP10:  energy.P10,
		EnergyP50:  energy.P50,
		EnergyP90:  energy.P90,
		AgeMean:    ageMean,

		MoistureMin:   moistMin,
		MoistureMean:  moistMean,
		MoistureMax:   moistMax,
		TempMean:      tempMean,
		NutritionMean: nutMean,

		ActiveDisasters: strings.Join(s.ActiveDisasters, "|"),
	}

	// Reset for next window
	c.windowStartTick = s.Tick
	c.windowStartTime = s.SimTime
	c.eggsLaid = 0
	c.hatched = 0
	c.deathsAge = 0
	c.deathsStarved = 0
	c.pickups = 0
	c.foodDelivered = 0
	c.foodEaten = 0
	c.transitions = 0

	return stats
}

// Reset restarts the window at the given time, dropping pending counts.
// Used after a save is restored.
func (c *Collector) Reset(tick int64, simTime float64) {
	*c = Collector{windowSec: c.windowSec, windowStartTick: tick, windowStartTime: simTime}
}

// WindowSec returns the window length in simulated seconds.
func (c *Collector) WindowSec() float64 {
	return c.windowSec
}
