package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/antnest/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats writes the per-stage timing table.
func (g *Game) logPerfStats(s telemetry.PerfStats) {
	Logf("=== Perf @ Tick %d (speed %gx) | %.0f ticks/s ===", g.clock.Ticks, g.clock.SpeedMultiplier, s.TicksPerSecond)
	Logf("Avg tick: %s (min %s, max %s)",
		s.AvgTickDuration.Round(time.Microsecond),
		s.MinTickDuration.Round(time.Microsecond),
		s.MaxTickDuration.Round(time.Microsecond))

	for _, cat := range g.systemRegistry.Categories() {
		for _, info := range g.systemRegistry.ByCategory(cat) {
			avg, ok := s.PhaseAvg[info.ID]
			if !ok {
				continue
			}
			Logf("  %-12s %-18s %10s  %5.1f%%", cat, info.Name, avg.Round(time.Microsecond), s.PhasePct[info.ID])
		}
	}
	Logf("")
}
