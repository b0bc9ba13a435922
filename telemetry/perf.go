package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step. They match the stage IDs in
// systems.SystemRegistry.
const (
	PhaseDecide       = "decide"
	PhaseMove         = "move"
	PhaseForage       = "forage"
	PhaseLifecycle    = "lifecycle"
	PhaseReproduction = "reproduction"
	PhaseDisasters    = "disasters"
	PhaseInvasive     = "invasive"
	PhaseEnvironment  = "environment"
	PhaseDevelopment  = "development"
	PhaseCleanup      = "cleanup"
	PhaseTelemetry    = "telemetry"
)

// Phases lists the step phases in pipeline order.
var Phases = []string{
	PhaseDecide, PhaseMove, PhaseForage, PhaseLifecycle, PhaseReproduction,
	PhaseDisasters, PhaseInvasive, PhaseEnvironment, PhaseDevelopment,
	PhaseCleanup, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	// Calculate throughput
	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TicksPerSecond:  ticksPerSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd       int64   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	DecidePct       float64 `csv:"decide_pct"`
	MovePct         float64 `csv:"move_pct"`
	ForagePct       float64 `csv:"forage_pct"`
	LifecyclePct    float64 `csv:"lifecycle_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	DisastersPct    float64 `csv:"disasters_pct"`
	InvasivePct     float64 `csv:"invasive_pct"`
	EnvironmentPct  float64 `csv:"environment_pct"`
	DevelopmentPct  float64 `csv:"development_pct"`
	CleanupPct      float64 `csv:"cleanup_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		DecidePct:       s.PhasePct[PhaseDecide],
		MovePct:         s.PhasePct[PhaseMove],
		ForagePct:       s.PhasePct[PhaseForage],
		LifecyclePct:    s.PhasePct[PhaseLifecycle],
		ReproductionPct: s.PhasePct[PhaseReproduction],
		DisastersPct:    s.PhasePct[PhaseDisasters],
		InvasivePct:     s.PhasePct[PhaseInvasive],
		EnvironmentPct:  s.PhasePct[PhaseEnvironment],
		DevelopmentPct:  s.PhasePct[PhaseDevelopment],
		CleanupPct:      s.PhasePct[PhaseCleanup],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
