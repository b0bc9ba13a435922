package game

import (
	"log/slog"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// updateDevelopment advances the colony phase, keeps every ant's age group,
// role and modifiers in step with it, and turns accumulated dig work into
// nest structures.
func (g *Game) updateDevelopment(dt float64) {
	dev := g.development
	from := dev.Phase

	changed := dev.Update(dt/g.cfg.Clock.DayLength, systems.ColonyStatus{
		Workers:       g.reg.numWorkers(),
		NestStructure: g.reg.numStructures(),
		QueenAlive:    g.reg.hasQueen,
	})
	if changed {
		g.emitEvent(telemetry.NewPhaseEvent(g.clock.Ticks, g.clock.Elapsed, from.String(), dev.Phase.String()))
		slog.Info("phase transition",
			"tick", g.clock.Ticks,
			"day", g.clock.CurrentDay(),
			"from", from.String(),
			"phase", dev.Phase.String(),
			"workers", g.reg.numWorkers(),
			"structures", g.reg.numStructures(),
		)
	}

	g.refreshAnts(changed)
	g.buildStructures()
}

// refreshAnts redraws roles on age group or phase changes. On a phase change
// every ant also gets the new modifiers and its speed recomputed from its
// innate speed.
func (g *Game) refreshAnts(phaseChanged bool) {
	phase := g.development.Phase
	mods := g.development.Modifiers()
	lo, hi := g.behavior.MinSpeed, g.behavior.MaxSpeed

	query := g.reg.workerFilter.Query()
	for query.Next() {
		_, _, b, lc, _, pb, _ := query.Get()
		if phaseChanged {
			pb.Modifiers = mods
			b.Speed = systems.EffectiveSpeed(b.BaseSpeed, mods, lo, hi)
		}
		systems.RefreshPhaseBehavior(pb, lc, phase, phaseChanged, g.rng)
	}

	if phaseChanged && g.reg.hasQueen {
		_, _, b, _, _, pb, _ := g.reg.queens.Get(g.reg.queen)
		pb.Modifiers = mods
		b.Speed = systems.EffectiveSpeed(b.BaseSpeed, mods, lo, hi)
	}
}

// buildStructures converts dig work into structures, alternating tunnels and
// chambers.
func (g *Game) buildStructures() {
	per := g.cfg.Colony.WorkPerStructure
	if per <= 0 {
		return
	}
	for g.digWork >= per && g.reg.numStructures() < g.cfg.Colony.MaxStructures {
		g.digWork -= per
		kind := components.StructureTunnel
		if g.dug%2 == 1 {
			kind = components.StructureChamber
		}
		g.dug++
		g.addStructure(kind)
		g.emitEvent(telemetry.Event{
			Type:    telemetry.EventStructureDug,
			Tick:    g.clock.Ticks,
			SimTime: g.clock.Elapsed,
			Detail:  kind.String(),
		})
	}
	if g.reg.numStructures() >= g.cfg.Colony.MaxStructures {
		g.digWork = 0
	}
}

// addStructure places a structure of the given kind near the nest entrance.
func (g *Game) addStructure(kind components.StructureKind) {
	spread := float32(g.cfg.Colony.StructureSpread)
	home := g.home()
	pos := components.Position{
		X: home.X + (g.rng.Float32()*2-1)*spread,
		Y: home.Y + (g.rng.Float32()*2-1)*spread,
	}
	g.reg.addStructure(g.reg.allocID(), pos, components.NestStructure{Kind: kind})
}
