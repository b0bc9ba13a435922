package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antnest/components"
)

func newTestEntities(n int) []ecs.Entity {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = posMap.NewEntity(&components.Position{})
	}
	return out
}

func idSet(ns []Neighbor) map[ecs.Entity]bool {
	set := make(map[ecs.Entity]bool, len(ns))
	for _, n := range ns {
		set[n.E] = true
	}
	return set
}

func TestSpatialGrid_QueryMatchesBruteForce(t *testing.T) {
	const n = 200
	ents := newTestEntities(n)
	grid := NewSpatialGrid(-100, -80, 100, 80, 16)
	rng := rand.New(rand.NewSource(7))

	positions := make(map[ecs.Entity]components.Position)
	randPos := func() components.Position {
		// Some positions fall outside the bounds on purpose
		return components.Position{X: rng.Float32()*260 - 130, Y: rng.Float32()*200 - 100}
	}

	for step := 0; step < 2000; step++ {
		e := ents[rng.Intn(n)]
		switch op := rng.Intn(3); {
		case op == 0:
			p := randPos()
			grid.Insert(e, p.X, p.Y)
			positions[e] = p
		case op == 1:
			if _, ok := positions[e]; ok {
				p := randPos()
				grid.Update(e, p.X, p.Y)
				positions[e] = p
			}
		default:
			_, had := positions[e]
			if removed := grid.Remove(e); removed != had {
				t.Fatalf("step %d: Remove = %v, indexed = %v", step, removed, had)
			}
			delete(positions, e)
		}

		if step%50 != 0 {
			continue
		}
		if grid.Len() != len(positions) {
			t.Fatalf("step %d: Len = %d, want %d", step, grid.Len(), len(positions))
		}
		c := randPos()
		r := rng.Float32() * 60
		got := idSet(grid.QueryRadiusInto(nil, c.X, c.Y, r, ecs.Entity{}))

		want := make(map[ecs.Entity]bool)
		for e, p := range positions {
			if c.DistSq(p) <= r*r {
				want[e] = true
			}
		}
		if len(got) != len(want) {
			t.Fatalf("step %d: query returned %d entities, want %d", step, len(got), len(want))
		}
		for e := range want {
			if !got[e] {
				t.Fatalf("step %d: missing entity %v", step, e)
			}
		}
	}
}

func TestSpatialGrid_CandidatesIncludeAllTruePositives(t *testing.T) {
	ents := newTestEntities(3)
	grid := NewSpatialGrid(0, 0, 64, 64, 16)
	grid.Insert(ents[0], 10, 10)
	grid.Insert(ents[1], 20, 10)
	grid.Insert(ents[2], 60, 60)

	cands := grid.CandidatesInto(nil, 12, 10, 9)
	found := make(map[ecs.Entity]bool)
	for _, e := range cands {
		found[e] = true
	}
	if !found[ents[0]] || !found[ents[1]] {
		t.Errorf("candidates %v missing a true positive", cands)
	}
	if found[ents[2]] {
		t.Errorf("far entity should not be in nearby cells")
	}
}

func TestSpatialGrid_UpdateAcrossCells(t *testing.T) {
	ents := newTestEntities(2)
	grid := NewSpatialGrid(0, 0, 100, 100, 10)
	grid.Insert(ents[0], 5, 5)
	grid.Insert(ents[1], 6, 6)

	grid.Update(ents[0], 95, 95)

	if got := grid.QueryRadius(5, 5, 3); len(got) != 1 || got[0] != ents[1] {
		t.Errorf("after move, query near origin = %v, want only the static entity", got)
	}
	if got := grid.QueryRadius(95, 95, 1); len(got) != 1 || got[0] != ents[0] {
		t.Errorf("after move, query at destination = %v", got)
	}
	if grid.Len() != 2 {
		t.Errorf("Len = %d, want 2", grid.Len())
	}
}

func TestSpatialGrid_OutOfBoundsClamped(t *testing.T) {
	ents := newTestEntities(1)
	grid := NewSpatialGrid(-10, -10, 10, 10, 4)
	grid.Insert(ents[0], 500, -500)

	if got := grid.QueryRadius(500, -500, 0.5); len(got) != 1 {
		t.Errorf("entity outside bounds not found at its own position: %v", got)
	}
	if got := grid.QueryRadius(0, 0, 5); len(got) != 0 {
		t.Errorf("exact filter should reject far entity, got %v", got)
	}
}

func TestSpatialGrid_EmptyAndUnknown(t *testing.T) {
	ents := newTestEntities(1)
	grid := NewSpatialGrid(0, 0, 32, 32, 8)

	if got := grid.QueryRadius(16, 16, 100); len(got) != 0 {
		t.Errorf("empty grid returned %v", got)
	}
	if grid.Remove(ents[0]) {
		t.Error("Remove of unknown entity should report false")
	}
	// Update on an unknown entity inserts it
	grid.Update(ents[0], 1, 1)
	if !grid.Contains(ents[0]) {
		t.Error("Update should insert unknown entity")
	}
}

func TestSpatialGrid_Nearest(t *testing.T) {
	ents := newTestEntities(3)
	grid := NewSpatialGrid(0, 0, 100, 100, 10)
	grid.Insert(ents[0], 50, 50)
	grid.Insert(ents[1], 53, 50)
	grid.Insert(ents[2], 51, 50)

	n, ok := grid.Nearest(50.5, 50, 10, func(e ecs.Entity) bool { return e != ents[0] })
	if !ok || n.E != ents[2] {
		t.Errorf("Nearest = %v (%v), want %v", n.E, ok, ents[2])
	}
	if _, ok := grid.Nearest(0, 0, 5, nil); ok {
		t.Error("Nearest should find nothing outside radius")
	}
}
