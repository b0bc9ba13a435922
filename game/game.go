// Package game runs the ant colony simulation on top of the ECS world.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
	"github.com/pthm-cable/antnest/persistence"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	PerfLog        bool    // write per-stage timing through Logf on each window
	StatsWindowSec float64 // 0 uses config
	OutputDir      string
	Store          persistence.Store // autosave and bookmark snapshots; nil disables saving
	Metrics        *telemetry.Metrics
	StatsCallback  func(telemetry.WindowStats)
	Empty          bool // start without queen, workers, food, soil or nest
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	reg  *registry
	rng  *rand.Rand
	seed int64

	clock       *systems.Clock
	disasters   *systems.DisasterState
	effects     systems.DisasterEffects
	development *systems.ColonyDevelopment

	behavior  systems.BehaviorParams
	repro     systems.ReproductionParams
	invasive  systems.InvasiveParams
	soilDrift systems.SoilDrift

	foodStore float64
	digWork   float64
	dug       int // structures dug by workers, drives Tunnel/Chamber alternation

	parallel *parallelState

	// Per-tick scratch
	neighbors []systems.Neighbor
	claims    map[ecs.Entity]bool
	dead      []deadAnt

	// Telemetry
	systemRegistry   *systems.SystemRegistry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	metrics          *telemetry.Metrics
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	perfLog          bool

	store        persistence.Store
	lastAutosave float64
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{Seed: 42})
}

// NewGameWithOptions creates a game and, unless opts.Empty is set, lays out
// the soil, food, initial nest, queen and starting workers.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:  cfg,
		reg:  newRegistry(cfg),
		rng:  rng,
		seed: seed,
		clock: systems.NewClock(cfg.Clock.DefaultSpeed, cfg.Clock.MaxSpeed,
			cfg.Clock.DayLength, cfg.Clock.Presets),
		disasters: systems.NewDisasterState(),
		effects:   systems.DisasterEffectsFromConfig(cfg),
		development: systems.NewColonyDevelopment(
			systems.PhaseConditionsFromConfig(cfg),
			systems.RandomTraits(cfg.Colony.Traits, rng),
			cfg.Colony.StabilityScore,
		),
		behavior:  systems.BehaviorParamsFromConfig(cfg),
		repro:     systems.ReproductionParamsFromConfig(cfg),
		invasive:  systems.InvasiveParamsFromConfig(cfg),
		soilDrift: systems.SoilDriftFromConfig(cfg),
		parallel:  newParallelState(),
		neighbors: make([]systems.Neighbor, 0, 64),
		claims:    make(map[ecs.Entity]bool),

		systemRegistry:   systems.NewSystemRegistry(),
		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		metrics:          opts.Metrics,
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		perfLog:          opts.PerfLog,
		store:            opts.Store,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			slog.Info("writing telemetry", "dir", om.Dir())
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.Empty {
		g.generateWorld()
		g.SpawnQueen()
		g.SpawnInitialPopulation(cfg.Population.InitialWorkers)
	}

	slog.Info("colony founded",
		"seed", seed,
		"workers", g.reg.numWorkers(),
		"food", g.reg.foodGrid.Len(),
		"soil", g.reg.soilGrid.Len(),
		"traits", g.development.Traits,
		"stats_window", g.collector.WindowSec(),
	)
	return g
}

// generateWorld lays out the soil grid, food sources and the initial nest.
func (g *Game) generateWorld() {
	for _, s := range systems.GenerateSoil(g.cfg, g.seed) {
		g.reg.addSoil(g.reg.allocID(), s.Pos, s.Soil)
	}
	for _, f := range systems.PlaceFood(g.cfg, g.rng, g.seed) {
		g.reg.addFood(g.reg.allocID(), f.Pos, f.Food)
	}
	for i := 0; i < g.cfg.Colony.InitialChambers; i++ {
		g.addStructure(components.StructureChamber)
	}
	for i := 0; i < g.cfg.Colony.InitialTunnels; i++ {
		g.addStructure(components.StructureTunnel)
	}
}

// UpdateHeadless advances the simulation by one configured wall-clock tick.
func (g *Game) UpdateHeadless() {
	g.Step(g.cfg.Clock.DT)
}

// Step advances the simulation by a wall-clock delta. The clock scales it by
// the speed multiplier; a paused clock yields a zero delta and nothing
// changes.
func (g *Game) Step(wallDT float64) {
	start := time.Now()
	dt := g.clock.Advance(wallDT)
	if dt <= 0 {
		return
	}
	dt32 := float32(dt)

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDecide)
	g.decideAnts(dt32)

	g.perfCollector.StartPhase(telemetry.PhaseMove)
	g.moveAnts(dt32)

	g.perfCollector.StartPhase(telemetry.PhaseForage)
	g.updateForaging()

	g.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	g.updateLifecycle(dt32)

	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()

	g.perfCollector.StartPhase(telemetry.PhaseReproduction)
	g.updateReproduction(dt32)

	g.perfCollector.StartPhase(telemetry.PhaseDisasters)
	g.updateDisasters(dt)

	g.perfCollector.StartPhase(telemetry.PhaseInvasive)
	g.updateInvasives(dt32)

	g.perfCollector.StartPhase(telemetry.PhaseEnvironment)
	g.updateEnvironment(dt32)

	g.perfCollector.StartPhase(telemetry.PhaseDevelopment)
	g.updateDevelopment(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.observeMetrics()
	g.autosave()

	g.perfCollector.EndTick()
	g.metrics.Tick(time.Since(start).Seconds())
}

// Tick returns the number of ticks that advanced simulation time.
func (g *Game) Tick() int64 {
	return g.clock.Ticks
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return g.clock.Elapsed
}

// Unload releases workers and open output files.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
