package systems

import (
	"math"
	"testing"
)

func TestClock_Advance(t *testing.T) {
	tests := []struct {
		name   string
		speed  float64
		paused bool
		wallDT float64
		want   float64
	}{
		{"normal speed", 1, false, 0.1, 0.1},
		{"fast", 20, false, 0.1, 2.0},
		{"paused", 20, true, 0.1, 0},
		{"negative wall delta", 1, false, -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(tt.speed, 100, 60, nil)
			c.SetPaused(tt.paused)
			got := c.Advance(tt.wallDT)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Advance(%v) = %v, want %v", tt.wallDT, got, tt.want)
			}
			if math.Abs(c.Elapsed-tt.want) > 1e-9 {
				t.Errorf("Elapsed = %v, want %v", c.Elapsed, tt.want)
			}
		})
	}
}

func TestClock_SpeedClampAndPresets(t *testing.T) {
	c := NewClock(1, 100, 60, []float64{1, 5, 20, 100})

	c.SetSpeedMultiplier(500)
	if c.SpeedMultiplier != 100 {
		t.Errorf("speed = %v, want clamp to 100", c.SpeedMultiplier)
	}
	c.SetSpeedMultiplier(-3)
	if c.SpeedMultiplier != 100 {
		t.Errorf("non-positive speed should be ignored, got %v", c.SpeedMultiplier)
	}

	c.SetPaused(true)
	if !c.ApplyPreset(1) || c.SpeedMultiplier != 5 || c.Paused {
		t.Errorf("preset 1: speed=%v paused=%v", c.SpeedMultiplier, c.Paused)
	}
	if c.ApplyPreset(9) {
		t.Error("out of range preset should fail")
	}
}

func TestClock_Days(t *testing.T) {
	c := NewClock(1, 100, 60, nil)
	c.Advance(150)
	if c.CurrentDay() != 2 {
		t.Errorf("CurrentDay = %d, want 2", c.CurrentDay())
	}
	if math.Abs(c.DayFraction()-0.5) > 1e-9 {
		t.Errorf("DayFraction = %v, want 0.5", c.DayFraction())
	}
	if c.TogglePause() != true {
		t.Error("TogglePause should pause a running clock")
	}
}
