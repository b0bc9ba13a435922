package main

import (
	"testing"

	"github.com/pthm-cable/antnest/config"
	"github.com/pthm-cable/antnest/game"
	"github.com/pthm-cable/antnest/persistence"
)

func TestLoadSave_ResumesPausedSave(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := persistence.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	src := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 3})
	defer src.Unload()
	for i := 0; i < 10; i++ {
		src.UpdateHeadless()
	}
	src.SetPaused(true)
	if err := src.SaveTo(store, "paused"); err != nil {
		t.Fatalf("save: %v", err)
	}

	g := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 4, Empty: true})
	defer g.Unload()
	if err := loadSave(g, store, "paused"); err != nil {
		t.Fatalf("loadSave: %v", err)
	}
	if g.Paused() {
		t.Fatal("clock still paused after load")
	}

	before := g.Tick()
	g.UpdateHeadless()
	if g.Tick() != before+1 {
		t.Errorf("tick = %d after one update, want %d", g.Tick(), before+1)
	}
}

func TestLoadSave_MissingSave(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := persistence.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	g := game.NewGameWithOptions(game.Options{Config: cfg, Seed: 4, Empty: true})
	defer g.Unload()

	if err := loadSave(g, store, "nope"); err == nil {
		t.Error("expected an error for a missing save")
	}
}
