// Package telemetry provides colony statistics, bookmarking, metrics and perf tracking.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType string

const (
	EventDisasterStarted EventType = "disaster_started"
	EventDisasterEnded   EventType = "disaster_ended"
	EventPhaseTransition EventType = "phase_transition"
	EventQueenSpawned    EventType = "queen_spawned"
	EventQueenDied       EventType = "queen_died"
	EventStructureDug    EventType = "structure_dug"
	EventStateRestored   EventType = "state_restored"
)

// Event is a discrete colony occurrence worth recording on its own line.
type Event struct {
	Type    EventType `csv:"type"`
	Tick    int64     `csv:"tick"`
	SimTime float64   `csv:"sim_time"`
	Detail  string    `csv:"detail"`
}

// NewDisasterEvent creates a disaster start or end event.
func NewDisasterEvent(tick int64, simTime float64, kind string, started bool) Event {
	typ := EventDisasterEnded
	if started {
		typ = EventDisasterStarted
	}
	return Event{Type: typ, Tick: tick, SimTime: simTime, Detail: kind}
}

// NewPhaseEvent creates a phase transition event.
func NewPhaseEvent(tick int64, simTime float64, from, to string) Event {
	return Event{Type: EventPhaseTransition, Tick: tick, SimTime: simTime, Detail: from + "->" + to}
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", string(e.Type)),
		slog.Int64("tick", e.Tick),
		slog.Float64("sim_time", e.SimTime),
		slog.String("detail", e.Detail),
	)
}
