package systems

import "github.com/pthm-cable/antnest/components"

// DrainRate returns the per-second energy drain of an ant. Higher energy
// efficiency lowers the base drain; disaster and threat drains add on top.
func DrainRate(baseDrain float32, mods components.BehaviorModifiers, extra float32) float32 {
	eff := mods.EnergyEfficiency
	if eff <= 0 {
		eff = 1
	}
	return baseDrain/eff + extra
}

// AgeAndDrain advances age and energy for one tick and reports whether the
// ant has died. Energy never leaves [0, MaxEnergy] and age never goes
// negative.
func AgeAndDrain(lc *components.Lifecycle, drainPerSec, dt float32) bool {
	if dt > 0 {
		lc.Age += dt
	}
	if lc.Age < 0 {
		lc.Age = 0
	}
	lc.AddEnergy(-drainPerSec * dt)
	return lc.Expired()
}
