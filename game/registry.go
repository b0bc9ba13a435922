package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
	"github.com/pthm-cable/antnest/systems"
)

// registry owns the ECS world, the typed mappers for each entity kind and
// one spatial layer per kind. Restore builds a fresh registry and swaps it in
// whole, so everything that refers to ecs.Entity handles lives here.
type registry struct {
	world *ecs.World

	workers *ecs.Map7[
		components.Identity,
		components.Position,
		components.AntBehavior,
		components.Lifecycle,
		components.Inventory,
		components.PhaseBehavior,
		components.Worker,
	]
	queens *ecs.Map7[
		components.Identity,
		components.Position,
		components.AntBehavior,
		components.Lifecycle,
		components.Inventory,
		components.PhaseBehavior,
		components.Queen,
	]
	eggs       *ecs.Map3[components.Identity, components.Position, components.Egg]
	food       *ecs.Map3[components.Identity, components.Position, components.FoodSource]
	soil       *ecs.Map3[components.Identity, components.Position, components.SoilCell]
	invasives  *ecs.Map3[components.Identity, components.Position, components.Invasive]
	structures *ecs.Map3[components.Identity, components.Position, components.NestStructure]

	workerFilter *ecs.Filter7[
		components.Identity,
		components.Position,
		components.AntBehavior,
		components.Lifecycle,
		components.Inventory,
		components.PhaseBehavior,
		components.Worker,
	]
	eggFilter       *ecs.Filter3[components.Identity, components.Position, components.Egg]
	foodFilter      *ecs.Filter3[components.Identity, components.Position, components.FoodSource]
	soilFilter      *ecs.Filter3[components.Identity, components.Position, components.SoilCell]
	invasiveFilter  *ecs.Filter3[components.Identity, components.Position, components.Invasive]
	structureFilter *ecs.Filter3[components.Identity, components.Position, components.NestStructure]

	// Single component lookups
	foodMap *ecs.Map[components.FoodSource]

	// Spatial layers
	antGrid       *systems.SpatialGrid // workers only
	queenGrid     *systems.SpatialGrid
	eggGrid       *systems.SpatialGrid
	foodGrid      *systems.SpatialGrid
	soilGrid      *systems.SpatialGrid
	invasiveGrid  *systems.SpatialGrid
	structureGrid *systems.SpatialGrid

	queen    ecs.Entity
	hasQueen bool
	nextID   uint32
}

func newRegistry(cfg *config.Config) *registry {
	world := ecs.NewWorld()
	d := &cfg.Derived
	grid := func() *systems.SpatialGrid {
		return systems.NewSpatialGrid(d.MinX32, d.MinY32, d.MaxX32, d.MaxY32, d.CellSize32)
	}

	return &registry{
		world: world,
		workers: ecs.NewMap7[
			components.Identity,
			components.Position,
			components.AntBehavior,
			components.Lifecycle,
			components.Inventory,
			components.PhaseBehavior,
			components.Worker,
		](world),
		queens: ecs.NewMap7[
			components.Identity,
			components.Position,
			components.AntBehavior,
			components.Lifecycle,
			components.Inventory,
			components.PhaseBehavior,
			components.Queen,
		](world),
		eggs:       ecs.NewMap3[components.Identity, components.Position, components.Egg](world),
		food:       ecs.NewMap3[components.Identity, components.Position, components.FoodSource](world),
		soil:       ecs.NewMap3[components.Identity, components.Position, components.SoilCell](world),
		invasives:  ecs.NewMap3[components.Identity, components.Position, components.Invasive](world),
		structures: ecs.NewMap3[components.Identity, components.Position, components.NestStructure](world),
		workerFilter: ecs.NewFilter7[
			components.Identity,
			components.Position,
			components.AntBehavior,
			components.Lifecycle,
			components.Inventory,
			components.PhaseBehavior,
			components.Worker,
		](world),
		eggFilter:       ecs.NewFilter3[components.Identity, components.Position, components.Egg](world),
		foodFilter:      ecs.NewFilter3[components.Identity, components.Position, components.FoodSource](world),
		soilFilter:      ecs.NewFilter3[components.Identity, components.Position, components.SoilCell](world),
		invasiveFilter:  ecs.NewFilter3[components.Identity, components.Position, components.Invasive](world),
		structureFilter: ecs.NewFilter3[components.Identity, components.Position, components.NestStructure](world),
		foodMap:         ecs.NewMap[components.FoodSource](world),
		antGrid:         grid(),
		queenGrid:       grid(),
		eggGrid:         grid(),
		foodGrid:        grid(),
		soilGrid:        grid(),
		invasiveGrid:    grid(),
		structureGrid:   grid(),
	}
}

// allocID returns the next stable entity identifier.
func (r *registry) allocID() components.Identity {
	id := components.Identity{ID: r.nextID}
	r.nextID++
	return id
}

// addWorker creates a worker and indexes it.
func (r *registry) addWorker(id components.Identity, pos components.Position, b components.AntBehavior,
	lc components.Lifecycle, inv components.Inventory, pb components.PhaseBehavior) ecs.Entity {
	tag := components.Worker{}
	e := r.workers.NewEntity(&id, &pos, &b, &lc, &inv, &pb, &tag)
	r.antGrid.Insert(e, pos.X, pos.Y)
	return e
}

// addQueen creates the queen. The caller guarantees there is none yet.
func (r *registry) addQueen(id components.Identity, pos components.Position, b components.AntBehavior,
	lc components.Lifecycle, pb components.PhaseBehavior, q components.Queen) ecs.Entity {
	inv := components.Inventory{}
	e := r.queens.NewEntity(&id, &pos, &b, &lc, &inv, &pb, &q)
	r.queenGrid.Insert(e, pos.X, pos.Y)
	r.queen = e
	r.hasQueen = true
	return e
}

func (r *registry) addEgg(id components.Identity, pos components.Position, egg components.Egg) ecs.Entity {
	e := r.eggs.NewEntity(&id, &pos, &egg)
	r.eggGrid.Insert(e, pos.X, pos.Y)
	return e
}

func (r *registry) addFood(id components.Identity, pos components.Position, food components.FoodSource) ecs.Entity {
	e := r.food.NewEntity(&id, &pos, &food)
	r.foodGrid.Insert(e, pos.X, pos.Y)
	return e
}

func (r *registry) addSoil(id components.Identity, pos components.Position, soil components.SoilCell) ecs.Entity {
	e := r.soil.NewEntity(&id, &pos, &soil)
	r.soilGrid.Insert(e, pos.X, pos.Y)
	return e
}

func (r *registry) addInvasive(id components.Identity, pos components.Position, inv components.Invasive) ecs.Entity {
	e := r.invasives.NewEntity(&id, &pos, &inv)
	r.invasiveGrid.Insert(e, pos.X, pos.Y)
	return e
}

func (r *registry) addStructure(id components.Identity, pos components.Position, s components.NestStructure) ecs.Entity {
	e := r.structures.NewEntity(&id, &pos, &s)
	r.structureGrid.Insert(e, pos.X, pos.Y)
	return e
}

// removeWorker drops a worker from the world and its layer.
func (r *registry) removeWorker(e ecs.Entity) {
	r.antGrid.Remove(e)
	r.world.RemoveEntity(e)
}

func (r *registry) removeQueen() {
	if !r.hasQueen {
		return
	}
	r.queenGrid.Remove(r.queen)
	r.world.RemoveEntity(r.queen)
	r.queen = ecs.Entity{}
	r.hasQueen = false
}

func (r *registry) removeEgg(e ecs.Entity) {
	r.eggGrid.Remove(e)
	r.world.RemoveEntity(e)
}

func (r *registry) removeInvasive(e ecs.Entity) {
	r.invasiveGrid.Remove(e)
	r.world.RemoveEntity(e)
}

// numWorkers returns the live worker count. Every live worker is indexed.
func (r *registry) numWorkers() int { return r.antGrid.Len() }

func (r *registry) numEggs() int { return r.eggGrid.Len() }

func (r *registry) numInvasives() int { return r.invasiveGrid.Len() }

func (r *registry) numStructures() int { return r.structureGrid.Len() }

// population counts living ants: workers and the queen. Eggs are not ants
// yet and do not count toward the reproduction caps.
func (r *registry) population() int {
	n := r.numWorkers()
	if r.hasQueen {
		n++
	}
	return n
}
