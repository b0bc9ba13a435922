package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/persistence"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// Snapshot captures the complete colony state under the configured save
// name.
func (g *Game) Snapshot() *persistence.SaveData {
	return g.snapshotNamed(g.cfg.Persistence.SaveName)
}

func (g *Game) snapshotNamed(name string) *persistence.SaveData {
	data := &persistence.SaveData{
		Format: persistence.FormatVersion,
		Metadata: persistence.Metadata{
			ID:         uuid.NewString(),
			SaveName:   name,
			CreatedAt:  time.Now().UTC(),
			ColonyAge:  g.clock.Elapsed,
			ColonyDay:  g.clock.CurrentDay(),
			Population: g.reg.population(),
			Phase:      g.development.Phase.String(),
			Version:    g.cfg.Persistence.Version,
		},
		Clock: persistence.ClockRecord{
			Elapsed:         g.clock.Elapsed,
			Ticks:           g.clock.Ticks,
			SpeedMultiplier: g.clock.SpeedMultiplier,
			Paused:          g.clock.Paused,
		},
		Disasters: persistence.DisasterRecord{
			Active:   make(map[string]float64, len(g.disasters.Active)),
			Cooldown: make(map[string]float64, len(g.disasters.Cooldown)),
		},
		Development: persistence.DevelopmentRecord{
			Phase:       g.development.Phase.String(),
			TimeInPhase: g.development.TimeInPhase,
			Progress:    g.development.Progress,
			Traits: persistence.TraitsRecord{
				QueenVigor:              g.development.Traits.QueenVigor,
				WorkerEfficiency:        g.development.Traits.WorkerEfficiency,
				ArchitecturalSkill:      g.development.Traits.ArchitecturalSkill,
				EnvironmentalAdaptation: g.development.Traits.EnvironmentalAdaptation,
			},
			DigWork: g.digWork,
			Dug:     g.dug,
		},
		FoodStore: g.foodStore,
		NextID:    g.reg.nextID,
		Seed:      g.seed,
	}

	for _, a := range g.Ants() {
		data.Ants = append(data.Ants, antRecord(a))
	}
	if q, ok := g.Queen(); ok {
		data.Queen = &persistence.QueenRecord{
			Ant:                  antRecord(q.AntView),
			ReproductiveCapacity: q.Queen.ReproductiveCapacity,
			TimeSinceLastEgg:     q.Queen.TimeSinceLastEgg,
			EggLayingInterval:    q.Queen.EggLayingInterval,
			EggsLaid:             q.Queen.EggsLaid,
		}
	}
	for _, e := range g.Eggs() {
		data.Eggs = append(data.Eggs, persistence.EggRecord{
			ID: e.ID, X: e.Position.X, Y: e.Position.Y, IncubationTime: e.Egg.IncubationTime,
		})
	}
	for _, f := range g.FoodSources() {
		data.Food = append(data.Food, persistence.FoodRecord{
			ID:                f.ID,
			X:                 f.Position.X,
			Y:                 f.Position.Y,
			NutritionValue:    f.Food.NutritionValue,
			IsAvailable:       f.Food.IsAvailable,
			RegenerationTimer: f.Food.RegenerationTimer,
			RegenerationTime:  f.Food.RegenerationTime,
			BaseNutrition:     f.Food.BaseNutrition,
		})
	}
	for _, s := range g.SoilCells() {
		data.Soil = append(data.Soil, persistence.SoilRecord{
			ID: s.ID, X: s.Position.X, Y: s.Position.Y,
			Moisture: s.Soil.Moisture, Temperature: s.Soil.Temperature, Nutrition: s.Soil.Nutrition,
		})
	}
	for _, inv := range g.Invasives() {
		data.Invasives = append(data.Invasives, persistence.InvasiveRecord{
			ID: inv.ID, X: inv.Position.X, Y: inv.Position.Y,
			Lifetime: inv.Invasive.Lifetime, FoodConsumptionRate: inv.Invasive.FoodConsumptionRate,
		})
	}
	for _, st := range g.Structures() {
		data.Structures = append(data.Structures, persistence.StructureRecord{
			ID: st.ID, X: st.Position.X, Y: st.Position.Y, Kind: uint8(st.Structure.Kind),
		})
	}
	for kind, remaining := range g.disasters.Active {
		data.Disasters.Active[kind.String()] = remaining
	}
	for kind, cd := range g.disasters.Cooldown {
		data.Disasters.Cooldown[kind.String()] = cd
	}
	return data
}

func antRecord(a AntView) persistence.AntRecord {
	return persistence.AntRecord{
		ID:          a.ID,
		X:           a.Position.X,
		Y:           a.Position.Y,
		State:       a.Behavior.State.String(),
		TargetX:     a.Behavior.Target.X,
		TargetY:     a.Behavior.Target.Y,
		HasTarget:   a.Behavior.HasTarget,
		Speed:       a.Behavior.Speed,
		BaseSpeed:   a.Behavior.BaseSpeed,
		HomeX:       a.Behavior.Home.X,
		HomeY:       a.Behavior.Home.Y,
		StateTimer:  a.Behavior.StateTimer,
		Age:         a.Lifecycle.Age,
		MaxAge:      a.Lifecycle.MaxAge,
		Energy:      a.Lifecycle.Energy,
		MaxEnergy:   a.Lifecycle.MaxEnergy,
		CarriedFood: a.Inventory.CarriedFood,
		AgeGroup:    uint8(a.Phase.AgeGroup),
		Role:        uint8(a.Phase.Role),
	}
}

// decodeAnt converts a record back into components. Modifiers come from the
// restored phase, not the record.
func decodeAnt(r *persistence.AntRecord, mods components.BehaviorModifiers) (
	components.Position, components.AntBehavior, components.Lifecycle, components.Inventory, components.PhaseBehavior, error) {
	state, ok := components.ParseAntState(r.State)
	if !ok {
		return components.Position{}, components.AntBehavior{}, components.Lifecycle{}, components.Inventory{}, components.PhaseBehavior{},
			fmt.Errorf("ant %d: unknown state %q", r.ID, r.State)
	}
	group := components.AgeGroup(r.AgeGroup)
	role := components.Role(r.Role)
	if group.String() == "Unknown" || role.String() == "Unknown" {
		return components.Position{}, components.AntBehavior{}, components.Lifecycle{}, components.Inventory{}, components.PhaseBehavior{},
			fmt.Errorf("ant %d: unknown age group %d or role %d", r.ID, r.AgeGroup, r.Role)
	}

	b := components.AntBehavior{
		State:      state,
		Target:     components.Position{X: r.TargetX, Y: r.TargetY},
		HasTarget:  r.HasTarget,
		Speed:      r.Speed,
		BaseSpeed:  r.BaseSpeed,
		Home:       components.Position{X: r.HomeX, Y: r.HomeY},
		StateTimer: r.StateTimer,
	}
	lc := components.Lifecycle{Age: r.Age, MaxAge: r.MaxAge, Energy: r.Energy, MaxEnergy: r.MaxEnergy}
	inv := components.Inventory{CarriedFood: r.CarriedFood}
	pb := components.PhaseBehavior{AgeGroup: group, Role: role, Modifiers: mods}
	return components.Position{X: r.X, Y: r.Y}, b, lc, inv, pb, nil
}

// Restore replaces the live colony with data. The data is validated and a
// fresh registry is built before anything is swapped in, so on error the
// running game is unchanged.
func (g *Game) Restore(data *persistence.SaveData) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	phase, ok := systems.ParsePhase(data.Development.Phase)
	if !ok {
		return fmt.Errorf("restore: unknown phase %q", data.Development.Phase)
	}
	disasters := systems.NewDisasterState()
	for name, remaining := range data.Disasters.Active {
		kind, ok := systems.ParseDisasterType(name)
		if !ok {
			return fmt.Errorf("restore: unknown disaster %q", name)
		}
		if remaining > 0 {
			disasters.Active[kind] = remaining
		}
	}
	for name, cd := range data.Disasters.Cooldown {
		kind, ok := systems.ParseDisasterType(name)
		if !ok {
			return fmt.Errorf("restore: unknown disaster %q", name)
		}
		disasters.Cooldown[kind] = max(cd, 0)
	}

	t := data.Development.Traits
	dev := systems.NewColonyDevelopment(g.development.Table(), systems.ColonyTraits{
		QueenVigor:              t.QueenVigor,
		WorkerEfficiency:        t.WorkerEfficiency,
		ArchitecturalSkill:      t.ArchitecturalSkill,
		EnvironmentalAdaptation: t.EnvironmentalAdaptation,
	}, g.development.StabilityScore)
	dev.SetPhase(phase)
	dev.TimeInPhase = data.Development.TimeInPhase
	dev.Progress = data.Development.Progress
	mods := dev.Modifiers()

	reg := newRegistry(g.cfg)
	for i := range data.Ants {
		pos, b, lc, inv, pb, err := decodeAnt(&data.Ants[i], mods)
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		reg.addWorker(components.Identity{ID: data.Ants[i].ID}, pos, b, lc, inv, pb)
	}
	if qr := data.Queen; qr != nil {
		pos, b, lc, _, pb, err := decodeAnt(&qr.Ant, mods)
		if err != nil {
			return fmt.Errorf("restore queen: %w", err)
		}
		reg.addQueen(components.Identity{ID: qr.Ant.ID}, pos, b, lc, pb, components.Queen{
			ReproductiveCapacity: qr.ReproductiveCapacity,
			TimeSinceLastEgg:     qr.TimeSinceLastEgg,
			EggLayingInterval:    qr.EggLayingInterval,
			EggsLaid:             qr.EggsLaid,
		})
	}
	for _, e := range data.Eggs {
		reg.addEgg(components.Identity{ID: e.ID}, components.Position{X: e.X, Y: e.Y},
			components.Egg{IncubationTime: e.IncubationTime})
	}
	for _, f := range data.Food {
		reg.addFood(components.Identity{ID: f.ID}, components.Position{X: f.X, Y: f.Y}, components.FoodSource{
			NutritionValue:    f.NutritionValue,
			IsAvailable:       f.IsAvailable,
			RegenerationTimer: f.RegenerationTimer,
			RegenerationTime:  f.RegenerationTime,
			BaseNutrition:     f.BaseNutrition,
		})
	}
	for _, s := range data.Soil {
		reg.addSoil(components.Identity{ID: s.ID}, components.Position{X: s.X, Y: s.Y}, components.SoilCell{
			Moisture: s.Moisture, Temperature: s.Temperature, Nutrition: s.Nutrition,
		})
	}
	for _, inv := range data.Invasives {
		reg.addInvasive(components.Identity{ID: inv.ID}, components.Position{X: inv.X, Y: inv.Y}, components.Invasive{
			Lifetime: inv.Lifetime, FoodConsumptionRate: inv.FoodConsumptionRate,
		})
	}
	for _, st := range data.Structures {
		kind := components.StructureKind(st.Kind)
		if kind != components.StructureChamber && kind != components.StructureTunnel {
			return fmt.Errorf("restore: structure %d: unknown kind %d", st.ID, st.Kind)
		}
		reg.addStructure(components.Identity{ID: st.ID}, components.Position{X: st.X, Y: st.Y},
			components.NestStructure{Kind: kind})
	}
	reg.nextID = data.NextID

	// Everything decoded; swap in.
	g.reg = reg
	g.disasters = disasters
	g.development = dev
	g.foodStore = data.FoodStore
	g.digWork = data.Development.DigWork
	g.dug = data.Development.Dug
	g.seed = data.Seed
	g.rng = rand.New(rand.NewSource(data.Seed ^ data.Clock.Ticks))
	g.clock.Elapsed = data.Clock.Elapsed
	g.clock.Ticks = data.Clock.Ticks
	g.clock.SetSpeedMultiplier(data.Clock.SpeedMultiplier)
	g.clock.SetPaused(data.Clock.Paused)
	g.lastAutosave = data.Clock.Elapsed
	clear(g.claims)
	g.dead = g.dead[:0]
	g.collector.Reset(g.clock.Ticks, g.clock.Elapsed)

	g.emitEvent(telemetry.Event{
		Type:    telemetry.EventStateRestored,
		Tick:    g.clock.Ticks,
		SimTime: g.clock.Elapsed,
		Detail:  data.Metadata.SaveName,
	})
	slog.Info("colony restored",
		"save", data.Metadata.SaveName,
		"tick", g.clock.Ticks,
		"phase", phase.String(),
		"population", reg.population(),
	)
	return nil
}

// SaveTo writes a snapshot to store under name.
func (g *Game) SaveTo(store persistence.Store, name string) error {
	if store == nil {
		return fmt.Errorf("save %s: no store", name)
	}
	if err := store.Save(g.snapshotNamed(name)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// LoadFrom restores the named save from store.
func (g *Game) LoadFrom(store persistence.Store, name string) error {
	if store == nil {
		return fmt.Errorf("load %s: no store", name)
	}
	data, err := store.Load(name)
	if err != nil {
		return err
	}
	return g.Restore(data)
}
