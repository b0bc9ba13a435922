package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDecide)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMove)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseDecide]; !ok {
		t.Error("expected decide phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseMove]; !ok {
		t.Error("expected move phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseDecide)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseMove:        40,
			PhaseDevelopment: 5,
		},
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.MovePct != 40 || row.DevelopmentPct != 5 || row.DecidePct != 0 {
		t.Errorf("phase columns = move %v dev %v decide %v", row.MovePct, row.DevelopmentPct, row.DecidePct)
	}
}
