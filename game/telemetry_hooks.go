package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/systems"
	"github.com/pthm-cable/antnest/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.clock.Elapsed) {
		return
	}

	stats := g.collector.Flush(g.sample())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Console output
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if g.perfLog {
		g.logPerfStats(perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Keep a save at every bookmark
		if g.store != nil {
			name := fmt.Sprintf("%s-%d", bm.Type, bm.Tick)
			if err := g.SaveTo(g.store, name); err != nil {
				slog.Error("failed to save bookmark snapshot", "error", err)
			} else {
				slog.Info("snapshot saved", "name", name, "tick", g.clock.Ticks)
			}
		}
	}
}

// observeMetrics pushes the end-of-tick colony state to the exporter.
func (g *Game) observeMetrics() {
	if g.metrics == nil {
		return
	}
	c := g.Counts()

	states := make(map[string]int, components.NumAntStates)
	for i, n := range c.States {
		states[components.AntState(i).String()] = n
	}
	disasters := make(map[string]float64, len(systems.AllDisasters))
	for _, kind := range systems.AllDisasters {
		disasters[kind.String()] = g.disasters.Remaining(kind)
	}

	g.metrics.Observe(telemetry.Gauges{
		Workers:       c.Workers,
		Eggs:          c.Eggs,
		Invasives:     c.Invasives,
		Food:          c.Food,
		QueenAlive:    c.QueenAlive,
		States:        states,
		FoodStore:     c.FoodStore,
		FoodAvailable: c.FoodAvailable,
		Phase:         int(g.development.Phase),
		PhaseProgress: g.development.Progress,
		Day:           g.clock.Elapsed / g.cfg.Clock.DayLength,
		Disasters:     disasters,
		Speed:         g.clock.SpeedMultiplier,
	})
}

// autosave writes the configured save slot every autosave interval of
// simulated time.
func (g *Game) autosave() {
	interval := g.cfg.Persistence.AutosaveInterval
	if g.store == nil || interval <= 0 || g.clock.Elapsed-g.lastAutosave < interval {
		return
	}
	g.lastAutosave = g.clock.Elapsed
	if err := g.SaveTo(g.store, g.cfg.Persistence.SaveName); err != nil {
		slog.Error("autosave failed", "tick", g.clock.Ticks, "error", err)
		return
	}
	slog.Info("autosaved", "tick", g.clock.Ticks, "name", g.cfg.Persistence.SaveName)
}

// emitEvent logs a discrete colony event and writes it to the events CSV.
func (g *Game) emitEvent(e telemetry.Event) {
	slog.Info("event", "event", e)
	if g.outputManager != nil {
		if err := g.outputManager.WriteEvent(e); err != nil {
			slog.Error("failed to write event", "error", err)
		}
	}
}
