package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// TriggerDisaster starts a disaster. It returns false without changing
// anything when the kind is active or cooling down.
func (g *Game) TriggerDisaster(kind systems.DisasterType) bool {
	if !g.disasters.Trigger(kind, g.effects.Timing[kind]) {
		return false
	}
	g.emitEvent(telemetry.NewDisasterEvent(g.clock.Ticks, g.clock.Elapsed, kind.String(), true))
	return true
}

func (g *Game) randomChance(kind systems.DisasterType) float64 {
	d := &g.cfg.Disasters
	switch kind {
	case systems.DisasterRain:
		return d.Rain.RandomChance
	case systems.DisasterDrought:
		return d.Drought.RandomChance
	case systems.DisasterColdSnap:
		return d.ColdSnap.RandomChance
	case systems.DisasterInvasiveSpecies:
		return d.Invasive.RandomChance
	}
	return 0
}

// updateDisasters rolls random triggers, applies soil effects of active
// disasters and then advances their timers.
func (g *Game) updateDisasters(dt float64) {
	if g.cfg.Disasters.RandomEnabled {
		for _, kind := range systems.AllDisasters {
			if g.rng.Float64() < g.randomChance(kind)*dt {
				g.TriggerDisaster(kind)
			}
		}
	}

	if g.disasters.AffectsSoil() {
		dt32 := float32(dt)
		query := g.reg.soilFilter.Query()
		for query.Next() {
			_, _, soil := query.Get()
			g.disasters.ApplySoilEffects(soil, &g.effects, dt32)
		}
	}

	for _, kind := range g.disasters.Tick(dt) {
		g.emitEvent(telemetry.NewDisasterEvent(g.clock.Ticks, g.clock.Elapsed, kind.String(), false))
	}
}

// updateInvasives spawns, moves and feeds invasive organisms while the
// InvasiveSpecies disaster is active, and clears them once it is not.
func (g *Game) updateInvasives(dt float32) {
	if !g.disasters.IsActive(systems.DisasterInvasiveSpecies) {
		g.clearInvasives()
		return
	}
	p := &g.invasive

	if systems.ShouldSpawnInvasive(g.reg.numInvasives(), g.rng, p, dt) {
		pos, inv := systems.NewInvasive(g.rng, p)
		g.reg.addInvasive(g.reg.allocID(), pos, inv)
	}

	var expired []ecs.Entity
	query := g.reg.invasiveFilter.Query()
	for query.Next() {
		e := query.Entity()
		_, pos, inv := query.Get()

		next, done := systems.WanderInvasive(*pos, inv, g.rng, p, dt)
		if done {
			expired = append(expired, e)
			continue
		}
		*pos = next
		g.reg.invasiveGrid.Update(e, pos.X, pos.Y)
		g.feedInvasive(*pos, inv.FoodConsumptionRate, dt)
	}

	for _, e := range expired {
		g.reg.removeInvasive(e)
	}
}

// feedInvasive depletes every available food source within feed radius.
func (g *Game) feedInvasive(pos components.Position, rate, dt float32) {
	g.neighbors = g.reg.foodGrid.QueryRadiusInto(g.neighbors[:0], pos.X, pos.Y, g.invasive.FeedRadius, ecs.Entity{})
	for _, nb := range g.neighbors {
		food := g.reg.foodMap.Get(nb.E)
		if !food.IsAvailable {
			continue
		}
		before := food.NutritionValue
		systems.DepleteFood(food, rate, &g.invasive, dt)
		g.collector.RecordInvasiveFeeding(before - food.NutritionValue)
	}
}

func (g *Game) clearInvasives() {
	if g.reg.numInvasives() == 0 {
		return
	}
	var all []ecs.Entity
	query := g.reg.invasiveFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		g.reg.removeInvasive(e)
	}
	slog.Debug("invasives cleared", "tick", g.clock.Ticks, "count", len(all))
}
