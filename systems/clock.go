package systems

// Clock converts wall time into simulation time.
// Effective delta is wall delta times the speed multiplier, or zero while
// paused.
type Clock struct {
	Paused          bool
	SpeedMultiplier float64
	MaxSpeed        float64
	DayLength       float64 // simulated seconds per colony day
	Presets         []float64

	Elapsed float64 // total simulated seconds
	Ticks   int64   // ticks that advanced simulation time
}

// NewClock creates a running clock at the given speed.
func NewClock(speed, maxSpeed, dayLength float64, presets []float64) *Clock {
	c := &Clock{
		MaxSpeed:  maxSpeed,
		DayLength: dayLength,
		Presets:   presets,
	}
	c.SetSpeedMultiplier(speed)
	return c
}

// Advance returns the effective delta for a wall-clock delta and accumulates
// simulated time.
func (c *Clock) Advance(wallDT float64) float64 {
	if c.Paused || wallDT <= 0 {
		return 0
	}
	dt := wallDT * c.SpeedMultiplier
	c.Elapsed += dt
	c.Ticks++
	return dt
}

// SetSpeedMultiplier sets the speed, clamped to (0, MaxSpeed]. Non-positive
// values are ignored.
func (c *Clock) SetSpeedMultiplier(f float64) {
	if f <= 0 {
		return
	}
	if c.MaxSpeed > 0 && f > c.MaxSpeed {
		f = c.MaxSpeed
	}
	c.SpeedMultiplier = f
}

// SetPaused pauses or resumes the clock.
func (c *Clock) SetPaused(paused bool) {
	c.Paused = paused
}

// TogglePause flips the paused state and returns the new value.
func (c *Clock) TogglePause() bool {
	c.Paused = !c.Paused
	return c.Paused
}

// ApplyPreset selects a speed preset by index and resumes the clock.
// Returns false for an out of range index.
func (c *Clock) ApplyPreset(i int) bool {
	if i < 0 || i >= len(c.Presets) {
		return false
	}
	c.SetSpeedMultiplier(c.Presets[i])
	c.Paused = false
	return true
}

// CurrentDay returns the whole number of colony days elapsed.
func (c *Clock) CurrentDay() int {
	if c.DayLength <= 0 {
		return 0
	}
	return int(c.Elapsed / c.DayLength)
}

// DayFraction returns how far through the current day the clock is, in [0,1).
func (c *Clock) DayFraction() float64 {
	if c.DayLength <= 0 {
		return 0
	}
	days := c.Elapsed / c.DayLength
	return days - float64(int(days))
}
