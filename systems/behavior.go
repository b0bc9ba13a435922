package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// BehaviorParams holds worker state machine tuning.
type BehaviorParams struct {
	ArrivalDistance   float32
	TargetRange       float32
	ConsumptionRadius float32
	SenseRadius       float32
	MinSpeed          float32
	MaxSpeed          float32
	ReturnEnergyRatio float32
	RestDuration      float32
	RestFeedRate      float32
	DigChance         float32
	DigDuration       float32

	MinX, MinY, MaxX, MaxY float32
}

// BehaviorParamsFromConfig builds behavior parameters from configuration.
func BehaviorParamsFromConfig(cfg *config.Config) BehaviorParams {
	a := cfg.Ant
	return BehaviorParams{
		ArrivalDistance:   float32(a.ArrivalDistance),
		TargetRange:       float32(a.TargetRange),
		ConsumptionRadius: float32(a.ConsumptionRadius),
		SenseRadius:       float32(a.SenseRadius),
		MinSpeed:          float32(a.MinSpeed),
		MaxSpeed:          float32(a.MaxSpeed),
		ReturnEnergyRatio: float32(a.ReturnEnergyRatio),
		RestDuration:      float32(a.RestDuration),
		RestFeedRate:      float32(a.RestFeedRate),
		DigChance:         float32(a.DigChance),
		DigDuration:       float32(a.DigDuration),
		MinX:              cfg.Derived.MinX32,
		MinY:              cfg.Derived.MinY32,
		MaxX:              cfg.Derived.MaxX32,
		MaxY:              cfg.Derived.MaxY32,
	}
}

// EffectiveSpeed applies the phase speed modifier to an ant's innate speed
// and clamps the result to the allowed band.
func EffectiveSpeed(base float32, mods components.BehaviorModifiers, lo, hi float32) float32 {
	return clamp32(base*mods.Speed, lo, hi)
}

// RandomForageTarget picks a random point within TargetRange of pos on each
// axis, kept inside the world.
func RandomForageTarget(pos components.Position, rng *rand.Rand, p *BehaviorParams) components.Position {
	return components.Position{
		X: clamp32(pos.X+symmetric(rng, p.TargetRange), p.MinX, p.MaxX),
		Y: clamp32(pos.Y+symmetric(rng, p.TargetRange), p.MinY, p.MaxY),
	}
}

// StepToward moves pos toward target by at most step along the normalized
// direction. It reports arrival, without moving, once the target is within
// arrival distance.
func StepToward(pos, target components.Position, step, arrival float32) (components.Position, bool) {
	dx := target.X - pos.X
	dy := target.Y - pos.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist <= arrival {
		return pos, true
	}
	if step <= 0 {
		return pos, false
	}
	if step > dist {
		step = dist
	}
	return components.Position{
		X: pos.X + dx/dist*step,
		Y: pos.Y + dy/dist*step,
	}, false
}

// BeginCarry switches a forager to carrying food home. The ant eats from the
// source as it picks it up.
func BeginCarry(b *components.AntBehavior, inv *components.Inventory, lc *components.Lifecycle, value float32) {
	lc.AddEnergy(value)
	inv.CarriedFood = value
	b.State = components.StateCarryingFood
	b.SetTarget(b.Home)
}

// BeginReturn sends an ant home to rest.
func BeginReturn(b *components.AntBehavior) {
	b.State = components.StateReturning
	b.SetTarget(b.Home)
}

// BeginRest makes an ant stop where it is for duration seconds.
func BeginRest(b *components.AntBehavior, duration float32) {
	b.State = components.StateResting
	b.ClearTarget()
	b.StateTimer = duration
}

// BeginDig makes an ant dig in place for duration seconds.
func BeginDig(b *components.AntBehavior, duration float32) {
	b.State = components.StateDigging
	b.ClearTarget()
	b.StateTimer = duration
}

// TickTimedState counts down Resting or Digging. When the timer runs out the
// ant goes back to foraging and true is returned.
func TickTimedState(b *components.AntBehavior, dt float32) bool {
	if b.State != components.StateResting && b.State != components.StateDigging {
		return false
	}
	b.StateTimer -= dt
	if b.StateTimer > 0 {
		return false
	}
	b.StateTimer = 0
	b.State = components.StateForaging
	return true
}

// Arrive handles an ant reaching its target. A carrier drops its load and
// resumes foraging; a returning ant starts resting. Returns the food
// delivered to the colony store.
func Arrive(b *components.AntBehavior, inv *components.Inventory, restDuration float32) float32 {
	b.ClearTarget()
	switch b.State {
	case components.StateCarryingFood:
		delivered := inv.CarriedFood
		inv.CarriedFood = 0
		b.State = components.StateForaging
		return delivered
	case components.StateReturning:
		BeginRest(b, restDuration)
	}
	return 0
}

// NeedsRest reports whether a forager is tired enough to head home.
func NeedsRest(lc *components.Lifecycle, p *BehaviorParams) bool {
	return lc.EnergyRatio() < p.ReturnEnergyRatio
}

// ShouldDig reports whether a nest maintainer starts digging this tick.
func ShouldDig(role components.Role, phase Phase, rng *rand.Rand, p *BehaviorParams, dt float32) bool {
	if role != components.RoleNestMaintainer || phase == PhaseQueenFounding {
		return false
	}
	return rng.Float32() < p.DigChance*dt
}

// Feed moves up to rate*dt energy from the colony store into lc, without
// exceeding max energy. Returns the amount taken from the store.
func Feed(lc *components.Lifecycle, store *float64, rate, dt float32) float32 {
	want := min(rate*dt, lc.MaxEnergy-lc.Energy)
	if want <= 0 || *store <= 0 {
		return 0
	}
	take := min(want, float32(*store))
	lc.AddEnergy(take)
	*store -= float64(take)
	if *store < 0 {
		*store = 0
	}
	return take
}
