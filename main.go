package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pthm-cable/antnest/config"
	"github.com/pthm-cable/antnest/game"
	"github.com/pthm-cable/antnest/persistence"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	perfLog := flag.Bool("perf-log", false, "Print per-stage timing on each stats window")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	saveDir := flag.String("save-dir", "", "Directory for compressed save files")
	dbPath := flag.String("db", "", "SQLite database for saves (overrides -save-dir)")
	load := flag.String("load", "", "Save name to restore before running")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	speed := flag.Float64("speed", 0, "Simulation speed multiplier (0 = use config)")
	disaster := flag.String("disaster", "", "Trigger a disaster at start (Rain, Drought, ColdSnap, InvasiveSpecies)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	config.MustInit(*configPath)
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	store, err := openStore(*dbPath, *saveDir)
	if err != nil {
		slog.Error("failed to open save store", "error", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	var metrics *telemetry.Metrics
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics = telemetry.NewMetrics(cfg.Metrics.Namespace, reg)
		go serveMetrics(*metricsAddr, reg)
	}

	g := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		PerfLog:        *perfLog,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Store:          store,
		Metrics:        metrics,
	})
	defer g.Unload()

	if *load != "" {
		if store == nil {
			slog.Error("-load needs -save-dir or -db")
			os.Exit(1)
		}
		if err := loadSave(g, store, *load); err != nil {
			slog.Error("failed to load save", "name", *load, "error", err)
			os.Exit(1)
		}
	}
	if *speed > 0 {
		g.SetSpeedMultiplier(*speed)
	}
	if *disaster != "" {
		kind, ok := systems.ParseDisasterType(*disaster)
		if !ok {
			slog.Error("unknown disaster", "name", *disaster)
			os.Exit(1)
		}
		g.TriggerDisaster(kind)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"speed", g.SpeedMultiplier(),
	)

run:
	for {
		select {
		case <-stop:
			slog.Info("interrupted", "tick", g.Tick())
			break run
		default:
		}

		g.UpdateHeadless()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
	}

	if store != nil {
		if err := g.SaveTo(store, cfg.Persistence.SaveName); err != nil {
			slog.Error("final save failed", "error", err)
		}
	}
}

// openStore picks the SQLite store when a database path is given, the file
// store when a save directory is given, and no store otherwise.
func openStore(dbPath, saveDir string) (persistence.Store, error) {
	switch {
	case dbPath != "":
		return persistence.OpenSQLStore(dbPath)
	case saveDir != "":
		return persistence.NewFileStore(saveDir)
	}
	return nil, nil
}

// loadSave restores a named save and resumes the clock. A save taken while
// paused would otherwise never advance the tick count in a headless run.
func loadSave(g *game.Game, store persistence.Store, name string) error {
	if err := g.LoadFrom(store, name); err != nil {
		return err
	}
	if g.Paused() {
		g.SetPaused(false)
		slog.Info("resumed paused save", "name", name, "tick", g.Tick())
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(reg))
	slog.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server stopped", "error", err)
	}
}
