package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/antnest/components"
)

func TestCollector_FlushAndReset(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9.9) {
		t.Error("window should not be full at 9.9s")
	}
	if !c.ShouldFlush(10) {
		t.Error("window should be full at 10s")
	}

	c.RecordEggLaid()
	c.RecordHatch()
	c.RecordDeath(DeathStarved)
	c.RecordDeath(DeathOldAge)
	c.RecordDeath(DeathOldAge)
	c.RecordPickup()
	c.RecordDelivery(12.5)
	c.RecordTransition()

	var states [components.NumAntStates]int
	states[components.StateForaging] = 4
	states[components.StateCarryingFood] = 1

	stats := c.Flush(ColonySample{
		Tick:            600,
		SimTime:         10,
		Phase:           "FirstWorkers",
		Workers:         5,
		QueenAlive:      true,
		States:          states,
		Energies:        []float64{50, 60, 70},
		Moisture:        []float64{0.2, 0.4},
		ActiveDisasters: []string{"Rain", "ColdSnap"},
	})

	if stats.EggsLaid != 1 || stats.Hatched != 1 || stats.DeathsStarved != 1 || stats.DeathsAge != 2 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.FoodDelivered != 12.5 || stats.Pickups != 1 || stats.Transitions != 1 {
		t.Errorf("food counts = %+v", stats)
	}
	if stats.Foraging != 4 || stats.Carrying != 1 {
		t.Errorf("states foraging=%d carrying=%d", stats.Foraging, stats.Carrying)
	}
	if stats.EnergyMean != 60 || stats.MoistureMin != 0.2 || stats.MoistureMax != 0.4 {
		t.Errorf("distributions = %+v", stats)
	}
	if stats.ActiveDisasters != "Rain|ColdSnap" {
		t.Errorf("disasters = %q", stats.ActiveDisasters)
	}

	next := c.Flush(ColonySample{Tick: 1200, SimTime: 20})
	if next.WindowStartTick != 600 || next.EggsLaid != 0 || next.DeathsAge != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(25) {
		t.Error("new window started at 20s")
	}
}

func TestOutputManager_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int64(i), Workers: i}); err != nil {
			t.Fatal(err)
		}
		if err := om.WriteEvent(Event{Type: EventDisasterStarted, Tick: int64(i), Detail: "Rain"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"telemetry.csv", "events.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Errorf("%s has %d lines, want header + 3", name, len(lines))
		}
	}
}

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error("nil manager writes should be no-ops")
	}
}
