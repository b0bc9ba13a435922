package game

import "log/slog"

// SetSpeedMultiplier sets simulated seconds per wall second, clamped to the
// configured range.
func (g *Game) SetSpeedMultiplier(f float64) {
	g.clock.SetSpeedMultiplier(f)
	slog.Debug("speed changed", "tick", g.clock.Ticks, "speed", g.clock.SpeedMultiplier)
}

// SpeedPreset applies the i-th configured speed preset. It returns false for
// an unknown index.
func (g *Game) SpeedPreset(i int) bool {
	if !g.clock.ApplyPreset(i) {
		return false
	}
	slog.Debug("speed preset", "tick", g.clock.Ticks, "preset", i, "speed", g.clock.SpeedMultiplier)
	return true
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	g.clock.SetPaused(paused)
}

// TogglePause flips the pause state and returns the new one.
func (g *Game) TogglePause() bool {
	return g.clock.TogglePause()
}

// Paused reports whether the clock is paused.
func (g *Game) Paused() bool {
	return g.clock.Paused
}

// SpeedMultiplier returns the current speed multiplier.
func (g *Game) SpeedMultiplier() float64 {
	return g.clock.SpeedMultiplier
}
