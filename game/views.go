package game

import (
	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// AntView is a copy of one ant's state for presentation layers.
type AntView struct {
	ID        uint32
	Position  components.Position
	Behavior  components.AntBehavior
	Lifecycle components.Lifecycle
	Inventory components.Inventory
	Phase     components.PhaseBehavior
}

// QueenView adds the queen's reproduction state.
type QueenView struct {
	AntView
	Queen components.Queen
}

type EggView struct {
	ID       uint32
	Position components.Position
	Egg      components.Egg
}

type FoodView struct {
	ID       uint32
	Position components.Position
	Food     components.FoodSource
}

type SoilView struct {
	ID       uint32
	Position components.Position
	Soil     components.SoilCell
}

type InvasiveView struct {
	ID       uint32
	Position components.Position
	Invasive components.Invasive
}

type StructureView struct {
	ID        uint32
	Position  components.Position
	Structure components.NestStructure
}

// DisasterStatus describes one disaster kind.
type DisasterStatus struct {
	Kind      systems.DisasterType
	Active    bool
	Remaining float64
	Cooldown  float64
}

// DevelopmentView is a copy of the colony development state.
type DevelopmentView struct {
	Phase       systems.Phase
	TimeInPhase float64
	Progress    float64
	Breakdown   systems.PhaseProgress
	Conditions  systems.PhaseConditions
	Traits      systems.ColonyTraits
	Modifiers   components.BehaviorModifiers
	Day         int
	DigWork     float64
}

// Counts summarizes the colony population and resources.
type Counts struct {
	Workers       int
	Eggs          int
	QueenAlive    bool
	Invasives     int
	Structures    int
	Food          int
	FoodAvailable int
	Soil          int
	FoodStore     float64
	States        [components.NumAntStates]int
}

// Ants returns every worker.
func (g *Game) Ants() []AntView {
	out := make([]AntView, 0, g.reg.numWorkers())
	query := g.reg.workerFilter.Query()
	for query.Next() {
		id, pos, b, lc, inv, pb, _ := query.Get()
		out = append(out, AntView{ID: id.ID, Position: *pos, Behavior: *b, Lifecycle: *lc, Inventory: *inv, Phase: *pb})
	}
	return out
}

// Queen returns the queen, if there is one.
func (g *Game) Queen() (QueenView, bool) {
	if !g.reg.hasQueen {
		return QueenView{}, false
	}
	id, pos, b, lc, inv, pb, q := g.reg.queens.Get(g.reg.queen)
	return QueenView{
		AntView: AntView{ID: id.ID, Position: *pos, Behavior: *b, Lifecycle: *lc, Inventory: *inv, Phase: *pb},
		Queen:   *q,
	}, true
}

func (g *Game) Eggs() []EggView {
	out := make([]EggView, 0, g.reg.numEggs())
	query := g.reg.eggFilter.Query()
	for query.Next() {
		id, pos, egg := query.Get()
		out = append(out, EggView{ID: id.ID, Position: *pos, Egg: *egg})
	}
	return out
}

func (g *Game) FoodSources() []FoodView {
	out := make([]FoodView, 0, g.reg.foodGrid.Len())
	query := g.reg.foodFilter.Query()
	for query.Next() {
		id, pos, food := query.Get()
		out = append(out, FoodView{ID: id.ID, Position: *pos, Food: *food})
	}
	return out
}

func (g *Game) SoilCells() []SoilView {
	out := make([]SoilView, 0, g.reg.soilGrid.Len())
	query := g.reg.soilFilter.Query()
	for query.Next() {
		id, pos, soil := query.Get()
		out = append(out, SoilView{ID: id.ID, Position: *pos, Soil: *soil})
	}
	return out
}

func (g *Game) Invasives() []InvasiveView {
	out := make([]InvasiveView, 0, g.reg.numInvasives())
	query := g.reg.invasiveFilter.Query()
	for query.Next() {
		id, pos, inv := query.Get()
		out = append(out, InvasiveView{ID: id.ID, Position: *pos, Invasive: *inv})
	}
	return out
}

func (g *Game) Structures() []StructureView {
	out := make([]StructureView, 0, g.reg.numStructures())
	query := g.reg.structureFilter.Query()
	for query.Next() {
		id, pos, s := query.Get()
		out = append(out, StructureView{ID: id.ID, Position: *pos, Structure: *s})
	}
	return out
}

// Disasters returns the status of every disaster kind in a fixed order.
func (g *Game) Disasters() []DisasterStatus {
	out := make([]DisasterStatus, 0, len(systems.AllDisasters))
	for _, kind := range systems.AllDisasters {
		out = append(out, DisasterStatus{
			Kind:      kind,
			Active:    g.disasters.IsActive(kind),
			Remaining: g.disasters.Remaining(kind),
			Cooldown:  g.disasters.Cooldown[kind],
		})
	}
	return out
}

// Development returns the colony development state.
func (g *Game) Development() DevelopmentView {
	d := g.development
	return DevelopmentView{
		Phase:       d.Phase,
		TimeInPhase: d.TimeInPhase,
		Progress:    d.Progress,
		Breakdown:   d.Breakdown,
		Conditions:  d.Conditions,
		Traits:      d.Traits,
		Modifiers:   d.Modifiers(),
		Day:         g.clock.CurrentDay(),
		DigWork:     g.digWork,
	}
}

// Counts returns population, resource and behavior-state totals.
func (g *Game) Counts() Counts {
	c := Counts{
		Workers:    g.reg.numWorkers(),
		Eggs:       g.reg.numEggs(),
		QueenAlive: g.reg.hasQueen,
		Invasives:  g.reg.numInvasives(),
		Structures: g.reg.numStructures(),
		Food:       g.reg.foodGrid.Len(),
		Soil:       g.reg.soilGrid.Len(),
		FoodStore:  g.foodStore,
	}
	query := g.reg.workerFilter.Query()
	for query.Next() {
		_, _, b, _, _, _, _ := query.Get()
		c.States[b.State]++
	}
	foodQuery := g.reg.foodFilter.Query()
	for foodQuery.Next() {
		_, _, food := foodQuery.Get()
		if food.IsAvailable {
			c.FoodAvailable++
		}
	}
	return c
}

// Stats returns the current colony statistics sample.
func (g *Game) Stats() telemetry.ColonySample {
	return g.sample()
}

func (g *Game) sample() telemetry.ColonySample {
	c := g.Counts()
	s := telemetry.ColonySample{
		Tick:          g.clock.Ticks,
		SimTime:       g.clock.Elapsed,
		Day:           g.clock.Elapsed / g.cfg.Clock.DayLength,
		Phase:         g.development.Phase.String(),
		PhaseProgress: g.development.Progress,
		Workers:       c.Workers,
		Eggs:          c.Eggs,
		QueenAlive:    c.QueenAlive,
		Invasives:     c.Invasives,
		Structures:    c.Structures,
		FoodAvailable: c.FoodAvailable,
		FoodTotal:     c.Food,
		FoodStore:     c.FoodStore,
		States:        c.States,
		Energies:      make([]float64, 0, c.Workers),
		Ages:          make([]float64, 0, c.Workers),
		Moisture:      make([]float64, 0, c.Soil),
		Temperature:   make([]float64, 0, c.Soil),
		Nutrition:     make([]float64, 0, c.Soil),
	}

	query := g.reg.workerFilter.Query()
	for query.Next() {
		_, _, _, lc, _, _, _ := query.Get()
		s.Energies = append(s.Energies, float64(lc.Energy))
		s.Ages = append(s.Ages, float64(lc.Age))
	}
	soilQuery := g.reg.soilFilter.Query()
	for soilQuery.Next() {
		_, _, soil := soilQuery.Get()
		s.Moisture = append(s.Moisture, float64(soil.Moisture))
		s.Temperature = append(s.Temperature, float64(soil.Temperature))
		s.Nutrition = append(s.Nutrition, float64(soil.Nutrition))
	}
	for _, kind := range systems.AllDisasters {
		if g.disasters.IsActive(kind) {
			s.ActiveDisasters = append(s.ActiveDisasters, kind.String())
		}
	}
	return s
}
