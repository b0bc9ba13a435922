package systems

import (
	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// DisasterType enumerates the disaster kinds.
type DisasterType uint8

const (
	DisasterRain DisasterType = iota
	DisasterDrought
	DisasterColdSnap
	DisasterInvasiveSpecies
)

// AllDisasters lists every disaster kind in a fixed order.
var AllDisasters = [...]DisasterType{DisasterRain, DisasterDrought, DisasterColdSnap, DisasterInvasiveSpecies}

var disasterNames = [...]string{"Rain", "Drought", "ColdSnap", "InvasiveSpecies"}

// String returns the display name of the disaster kind.
func (d DisasterType) String() string {
	if int(d) < len(disasterNames) {
		return disasterNames[d]
	}
	return "Unknown"
}

// ParseDisasterType is the inverse of DisasterType.String.
func ParseDisasterType(name string) (DisasterType, bool) {
	for i, n := range disasterNames {
		if n == name {
			return DisasterType(i), true
		}
	}
	return 0, false
}

// DisasterTiming holds the active and cooldown durations of a kind.
type DisasterTiming struct {
	Duration float64
	Cooldown float64
}

// DisasterEffects holds per-second effect rates of active disasters.
type DisasterEffects struct {
	Timing map[DisasterType]DisasterTiming

	RainMoistureRate     float32
	RainSpeedFactor      float32
	DroughtMoistureRate  float32
	DroughtNutritionRate float32
	DroughtAntDrain      float32
	ColdTemperatureRate  float32
	ColdTemperatureFloor float32
	ColdSpeedFactor      float32
	ColdAntDrain         float32
}

// DisasterEffectsFromConfig builds effect rates from configuration.
func DisasterEffectsFromConfig(cfg *config.Config) DisasterEffects {
	d := cfg.Disasters
	timing := func(c config.DisasterConfig) DisasterTiming {
		return DisasterTiming{Duration: c.Duration, Cooldown: c.Cooldown}
	}
	return DisasterEffects{
		Timing: map[DisasterType]DisasterTiming{
			DisasterRain:            timing(d.Rain),
			DisasterDrought:         timing(d.Drought),
			DisasterColdSnap:        timing(d.ColdSnap),
			DisasterInvasiveSpecies: timing(d.Invasive),
		},
		RainMoistureRate:     float32(d.RainMoistureRate),
		RainSpeedFactor:      float32(d.RainSpeedFactor),
		DroughtMoistureRate:  float32(d.DroughtMoistureRate),
		DroughtNutritionRate: float32(d.DroughtNutritionRate),
		DroughtAntDrain:      float32(d.DroughtAntDrain),
		ColdTemperatureRate:  float32(d.ColdTemperatureRate),
		ColdTemperatureFloor: float32(cfg.Soil.TempFloor),
		ColdSpeedFactor:      float32(d.ColdSpeedFactor),
		ColdAntDrain:         float32(d.ColdAntDrain),
	}
}

// DisasterState tracks active disasters and cooldowns. A kind is either in
// Active with positive remaining time or absent from it.
type DisasterState struct {
	Active   map[DisasterType]float64
	Cooldown map[DisasterType]float64
}

// NewDisasterState returns an empty state.
func NewDisasterState() *DisasterState {
	return &DisasterState{
		Active:   make(map[DisasterType]float64),
		Cooldown: make(map[DisasterType]float64),
	}
}

// IsActive reports whether kind is currently active.
func (s *DisasterState) IsActive(kind DisasterType) bool {
	_, ok := s.Active[kind]
	return ok
}

// OnCooldown reports whether kind still has cooldown time left.
func (s *DisasterState) OnCooldown(kind DisasterType) bool {
	return s.Cooldown[kind] > 0
}

// Remaining returns the active time left for kind, or 0.
func (s *DisasterState) Remaining(kind DisasterType) float64 {
	return s.Active[kind]
}

// Trigger activates kind unless it is active or on cooldown. The cooldown
// starts counting down immediately, alongside the active window.
func (s *DisasterState) Trigger(kind DisasterType, timing DisasterTiming) bool {
	if s.IsActive(kind) || s.OnCooldown(kind) {
		return false
	}
	if timing.Duration <= 0 {
		return false
	}
	s.Active[kind] = timing.Duration
	s.Cooldown[kind] = timing.Cooldown
	return true
}

// Tick advances all timers by dt and returns the kinds that ended this tick
// in AllDisasters order.
func (s *DisasterState) Tick(dt float64) []DisasterType {
	if dt <= 0 {
		return nil
	}
	var ended []DisasterType
	for _, kind := range AllDisasters {
		remaining, ok := s.Active[kind]
		if !ok {
			continue
		}
		remaining -= dt
		if remaining <= 0 {
			delete(s.Active, kind)
			ended = append(ended, kind)
		} else {
			s.Active[kind] = remaining
		}
	}
	for kind, cd := range s.Cooldown {
		cd -= dt
		if cd < 0 {
			cd = 0
		}
		s.Cooldown[kind] = cd
	}
	return ended
}

// Clone returns a deep copy.
func (s *DisasterState) Clone() *DisasterState {
	c := NewDisasterState()
	for k, v := range s.Active {
		c.Active[k] = v
	}
	for k, v := range s.Cooldown {
		c.Cooldown[k] = v
	}
	return c
}

// SpeedMultiplier returns the product of movement factors of active disasters.
func (s *DisasterState) SpeedMultiplier(fx *DisasterEffects) float32 {
	m := float32(1)
	if s.IsActive(DisasterRain) {
		m *= fx.RainSpeedFactor
	}
	if s.IsActive(DisasterColdSnap) {
		m *= fx.ColdSpeedFactor
	}
	return m
}

// AntDrain returns the extra energy drain per second from active disasters.
func (s *DisasterState) AntDrain(fx *DisasterEffects) float32 {
	var d float32
	if s.IsActive(DisasterDrought) {
		d += fx.DroughtAntDrain
	}
	if s.IsActive(DisasterColdSnap) {
		d += fx.ColdAntDrain
	}
	return d
}

// ApplySoilEffects perturbs a soil cell for one tick of active disasters.
func (s *DisasterState) ApplySoilEffects(soil *components.SoilCell, fx *DisasterEffects, dt float32) {
	if s.IsActive(DisasterRain) {
		soil.Moisture = min(soil.Moisture+fx.RainMoistureRate*dt, 1)
	}
	if s.IsActive(DisasterDrought) {
		soil.Moisture = max(soil.Moisture-fx.DroughtMoistureRate*dt, 0)
		soil.Nutrition = max(soil.Nutrition-fx.DroughtNutritionRate*dt, 0)
	}
	if s.IsActive(DisasterColdSnap) {
		soil.Temperature = max(soil.Temperature-fx.ColdTemperatureRate*dt, fx.ColdTemperatureFloor)
	}
}

// AffectsSoil reports whether any active disaster changes soil.
func (s *DisasterState) AffectsSoil() bool {
	return s.IsActive(DisasterRain) || s.IsActive(DisasterDrought) || s.IsActive(DisasterColdSnap)
}
