package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
)

// pickup is a food claim collected during the forage scan.
type pickup struct {
	ant, food ecs.Entity
}

// decideAnts runs the worker state machine on tick-start state and queues a
// movement snapshot for every ant that has somewhere to go. All random draws
// for the tick happen here so the parallel move phase stays deterministic.
func (g *Game) decideAnts(dt float32) {
	p := &g.behavior
	phase := g.development.Phase
	disasterSpeed := g.disasters.SpeedMultiplier(&g.effects)

	g.parallel.snapshots = g.parallel.snapshots[:0]

	query := g.reg.workerFilter.Query()
	for query.Next() {
		e := query.Entity()
		_, pos, b, lc, _, pb, _ := query.Get()

		threat, threatened := g.threatAt(*pos, b.State, dt)
		prev := b.State

		switch b.State {
		case components.StateResting:
			systems.Feed(lc, &g.foodStore, p.RestFeedRate, dt)
			systems.TickTimedState(b, dt)

		case components.StateDigging:
			g.digWork += float64(pb.Modifiers.ConstructionSkill * dt)
			systems.TickTimedState(b, dt)

		case components.StateForaging:
			switch {
			case systems.NeedsRest(lc, p):
				systems.BeginReturn(b)
			case threatened && threat.Cluster:
				systems.BeginRest(b, p.RestDuration)
			case b.HasTarget:
			case systems.ShouldDig(pb.Role, phase, g.rng, p, dt):
				systems.BeginDig(b, p.DigDuration)
			default:
				b.SetTarget(g.forageTarget(*pos, pb.Modifiers.ForagingEfficiency))
			}
		}

		if b.State != prev {
			g.collector.RecordTransition()
		}
		if !b.HasTarget {
			continue
		}

		speed := b.Speed * disasterSpeed
		if threatened {
			speed *= threat.Boost
		}
		g.parallel.snapshots = append(g.parallel.snapshots, antSnapshot{
			Entity: e,
			Pos:    *pos,
			Target: b.Target,
			Speed:  speed,
		})
	}
}

// threatAt reports whether an invasive is within defense range of pos and,
// if so, how an ant in the given state reacts.
func (g *Game) threatAt(pos components.Position, state components.AntState, dt float32) (systems.Threat, bool) {
	if !g.nearInvasive(pos) {
		return systems.Threat{}, false
	}
	return systems.ReactToThreat(state, g.rng, &g.invasive, dt), true
}

func (g *Game) nearInvasive(pos components.Position) bool {
	if g.reg.numInvasives() == 0 {
		return false
	}
	_, ok := g.reg.invasiveGrid.Nearest(pos.X, pos.Y, g.invasive.DefenseRadius, nil)
	return ok
}

// forageTarget picks the nearest available food the ant can sense, or a
// random point near it.
func (g *Game) forageTarget(pos components.Position, efficiency float32) components.Position {
	radius := g.behavior.SenseRadius * efficiency
	if radius > 0 {
		if nb, ok := g.reg.foodGrid.Nearest(pos.X, pos.Y, radius, g.foodAvailable); ok {
			return components.Position{X: nb.X, Y: nb.Y}
		}
	}
	return systems.RandomForageTarget(pos, g.rng, &g.behavior)
}

func (g *Game) foodAvailable(e ecs.Entity) bool {
	return g.reg.foodMap.Get(e).IsAvailable
}

// updateForaging lets every forager within consumption radius of an
// available source pick it up. Claims are collected during the scan so a
// source is never taken twice in one tick; the first claimant wins.
func (g *Game) updateForaging() {
	clear(g.claims)
	radius := g.behavior.ConsumptionRadius
	accept := func(e ecs.Entity) bool {
		return !g.claims[e] && g.foodAvailable(e)
	}

	var pickups []pickup
	query := g.reg.workerFilter.Query()
	for query.Next() {
		_, pos, b, _, _, _, _ := query.Get()
		if b.State != components.StateForaging {
			continue
		}
		nb, ok := g.reg.foodGrid.Nearest(pos.X, pos.Y, radius, accept)
		if !ok {
			continue
		}
		g.claims[nb.E] = true
		pickups = append(pickups, pickup{ant: query.Entity(), food: nb.E})
	}

	for _, pu := range pickups {
		value := systems.ConsumeFood(g.reg.foodMap.Get(pu.food))
		if value <= 0 {
			continue
		}
		_, _, b, lc, inv, _, _ := g.reg.workers.Get(pu.ant)
		systems.BeginCarry(b, inv, lc, value)
		g.collector.RecordPickup()
		g.collector.RecordTransition()
	}
}

// updateEnvironment drifts soil and regenerates depleted food.
func (g *Game) updateEnvironment(dt float32) {
	soilQuery := g.reg.soilFilter.Query()
	for soilQuery.Next() {
		_, _, soil := soilQuery.Get()
		systems.DriftSoil(soil, &g.soilDrift, g.rng, dt)
	}

	foodQuery := g.reg.foodFilter.Query()
	for foodQuery.Next() {
		_, _, food := foodQuery.Get()
		systems.RegenerateFood(food, dt)
	}
}
