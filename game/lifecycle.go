package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// deadAnt is a worker collected for removal at the end of the lifecycle pass.
type deadAnt struct {
	entity ecs.Entity
	cause  telemetry.DeathCause
}

// hatch is an egg that finished incubating this tick.
type hatch struct {
	entity ecs.Entity
	pos    components.Position
}

// SpawnInitialPopulation adds n workers around the nest entrance.
func (g *Game) SpawnInitialPopulation(n int) {
	spread := float32(g.cfg.Ant.InitialSpread)
	home := g.home()
	for i := 0; i < n; i++ {
		pos := components.Position{
			X: home.X + (g.rng.Float32()*2-1)*spread,
			Y: home.Y + (g.rng.Float32()*2-1)*spread,
		}
		g.spawnWorker(pos, systems.NewHatchling(g.rng, &g.repro))
	}
}

// spawnWorker adds a young foraging worker with the current phase modifiers.
func (g *Game) spawnWorker(pos components.Position, h systems.Hatchling) ecs.Entity {
	mods := g.development.Modifiers()
	phase := g.development.Phase

	b := components.AntBehavior{
		State:     components.StateForaging,
		BaseSpeed: h.Speed,
		Speed:     systems.EffectiveSpeed(h.Speed, mods, g.behavior.MinSpeed, g.behavior.MaxSpeed),
		Home:      g.home(),
	}
	lc := components.Lifecycle{MaxAge: h.MaxAge, Energy: h.Energy, MaxEnergy: g.repro.MaxEnergy}
	pb := components.PhaseBehavior{
		AgeGroup:  components.AgeYoung,
		Role:      systems.AssignRole(phase, components.AgeYoung, g.rng),
		Modifiers: mods,
	}
	return g.reg.addWorker(g.reg.allocID(), pos, b, lc, components.Inventory{}, pb)
}

// SpawnQueen places a queen at the nest entrance. It is rejected while a
// queen is alive.
func (g *Game) SpawnQueen() (ecs.Entity, bool) {
	if g.reg.hasQueen {
		return ecs.Entity{}, false
	}
	qc := g.cfg.Queen
	mods := g.development.Modifiers()
	speed := float32(qc.Speed)

	interval := float32(qc.EggLayingInterval)
	if vigor := g.development.Traits.QueenVigor; vigor > 0 {
		interval /= vigor
	}

	b := components.AntBehavior{
		State:     components.StateResting,
		BaseSpeed: speed,
		Speed:     systems.EffectiveSpeed(speed, mods, g.behavior.MinSpeed, g.behavior.MaxSpeed),
		Home:      g.home(),
	}
	lc := components.Lifecycle{
		MaxAge:    float32(qc.MaxAge),
		Energy:    float32(qc.Energy),
		MaxEnergy: float32(qc.MaxEnergy),
	}
	pb := components.PhaseBehavior{AgeGroup: components.AgeAdult, Role: components.RoleGeneralWorker, Modifiers: mods}
	q := components.Queen{
		ReproductiveCapacity: float32(qc.Capacity),
		EggLayingInterval:    interval,
	}

	e := g.reg.addQueen(g.reg.allocID(), g.home(), b, lc, pb, q)
	g.emitEvent(telemetry.Event{Type: telemetry.EventQueenSpawned, Tick: g.clock.Ticks, SimTime: g.clock.Elapsed})
	return e, true
}

// updateLifecycle ages every ant and drains its energy. Dead workers are
// collected for cleanupDead; the queen is removed here.
func (g *Game) updateLifecycle(dt float32) {
	base := float32(g.cfg.Ant.BaseDrain)
	disasterDrain := g.disasters.AntDrain(&g.effects)

	query := g.reg.workerFilter.Query()
	for query.Next() {
		_, pos, _, lc, _, pb, _ := query.Get()
		extra := disasterDrain
		if g.nearInvasive(*pos) {
			extra += g.invasive.DefenseDrain
		}
		if systems.AgeAndDrain(lc, systems.DrainRate(base, pb.Modifiers, extra), dt) {
			cause := telemetry.DeathOldAge
			if lc.Energy <= 0 {
				cause = telemetry.DeathStarved
			}
			g.dead = append(g.dead, deadAnt{entity: query.Entity(), cause: cause})
		}
	}

	g.updateQueen(base, disasterDrain, dt)
}

// updateQueen ages the queen, feeds her from the store when she runs low and
// removes her when she dies.
func (g *Game) updateQueen(base, disasterDrain, dt float32) {
	if !g.reg.hasQueen {
		return
	}
	_, pos, _, lc, _, pb, _ := g.reg.queens.Get(g.reg.queen)

	extra := disasterDrain
	if g.nearInvasive(*pos) {
		extra += g.invasive.DefenseDrain
	}
	if lc.EnergyRatio() < float32(g.cfg.Queen.FeedRatio) {
		systems.Feed(lc, &g.foodStore, float32(g.cfg.Queen.FeedRate), dt)
	}
	if !systems.AgeAndDrain(lc, systems.DrainRate(base, pb.Modifiers, extra), dt) {
		return
	}

	cause := telemetry.DeathOldAge
	if lc.Energy <= 0 {
		cause = telemetry.DeathStarved
	}
	g.reg.removeQueen()
	g.collector.RecordDeath(cause)
	g.metrics.Death(cause)
	g.emitEvent(telemetry.Event{
		Type:    telemetry.EventQueenDied,
		Tick:    g.clock.Ticks,
		SimTime: g.clock.Elapsed,
		Detail:  cause.String(),
	})
}

// cleanupDead removes workers collected by updateLifecycle.
func (g *Game) cleanupDead() {
	for _, d := range g.dead {
		if !g.reg.world.Alive(d.entity) {
			continue
		}
		g.reg.removeWorker(d.entity)
		g.collector.RecordDeath(d.cause)
		g.metrics.Death(d.cause)
		slog.Debug("ant died", "tick", g.clock.Ticks, "cause", d.cause.String())
	}
	g.dead = g.dead[:0]
}

// updateReproduction lets the queen lay and hatches finished eggs.
func (g *Game) updateReproduction(dt float32) {
	if g.reg.hasQueen {
		_, qpos, _, qlc, _, _, q := g.reg.queens.Get(g.reg.queen)
		if systems.UpdateQueen(q, qlc, g.avgSoilNutrition(), g.reg.population(), &g.repro, dt) {
			pos, egg := systems.NewEgg(*qpos, g.rng, &g.repro)
			g.reg.addEgg(g.reg.allocID(), pos, egg)
			g.collector.RecordEggLaid()
			g.metrics.EggLaid()
		}
	}

	var hatched []hatch
	query := g.reg.eggFilter.Query()
	for query.Next() {
		_, pos, egg := query.Get()
		if systems.Incubate(egg, dt) {
			hatched = append(hatched, hatch{entity: query.Entity(), pos: *pos})
		}
	}

	for _, h := range hatched {
		g.reg.removeEgg(h.entity)
		g.spawnWorker(h.pos, systems.NewHatchling(g.rng, &g.repro))
		g.collector.RecordHatch()
		g.metrics.Hatched()
	}
}

// avgSoilNutrition is the mean nutrition over all soil cells.
func (g *Game) avgSoilNutrition() float32 {
	var sum float32
	n := 0
	query := g.reg.soilFilter.Query()
	for query.Next() {
		_, _, soil := query.Get()
		sum += soil.Nutrition
		n++
	}
	if n == 0 {
		return g.repro.DefaultNutrition
	}
	return sum / float32(n)
}

func (g *Game) home() components.Position {
	return components.Position{X: g.cfg.Derived.HomeX32, Y: g.cfg.Derived.HomeY32}
}
