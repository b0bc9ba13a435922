package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPhaseAdvanced   BookmarkType = "phase_advanced"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkQueenLost       BookmarkType = "queen_lost"
	BookmarkFoodShortage    BookmarkType = "food_shortage"
	BookmarkStableColony    BookmarkType = "stable_colony"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	SimTimeSec  float64      `csv:"sim_time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time", b.SimTimeSec,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a colony's history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentWorkerPeak   int  // peak worker count since the last crash
	foodShort          bool // shortage already reported
	stableWindowsCount int  // consecutive windows with a steady workforce
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable colony detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.last(); ok {
		if b := bd.checkPhaseAdvanced(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkQueenLost(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkFoodShortage(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStableColony(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.Workers > bd.recentWorkerPeak {
		bd.recentWorkerPeak = stats.Workers
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) last() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkPhaseAdvanced(prev, stats WindowStats) *Bookmark {
	if stats.Phase == prev.Phase || stats.Phase == "" {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPhaseAdvanced,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Colony advanced from %s to %s on day %.1f", prev.Phase, stats.Phase, stats.Day),
	}
}

func (bd *BookmarkDetector) checkQueenLost(prev, stats WindowStats) *Bookmark {
	if !prev.QueenAlive || stats.QueenAlive {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkQueenLost,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Queen died with %d workers left", stats.Workers),
	}
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentWorkerPeak < 10 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Workers)/float64(bd.recentWorkerPeak)
	if dropPercent <= 0.30 {
		return nil
	}

	// Reset peak after crash
	oldPeak := bd.recentWorkerPeak
	bd.recentWorkerPeak = stats.Workers

	return &Bookmark{
		Type:        BookmarkPopulationCrash,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Workers crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Workers),
	}
}

// checkFoodShortage fires once when less than a quarter of food sources
// are available, and rearms when supply recovers past half.
func (bd *BookmarkDetector) checkFoodShortage(stats WindowStats) *Bookmark {
	if stats.FoodTotal == 0 {
		return nil
	}
	frac := float64(stats.FoodAvailable) / float64(stats.FoodTotal)
	if bd.foodShort {
		if frac > 0.5 {
			bd.foodShort = false
		}
		return nil
	}
	if frac >= 0.25 {
		return nil
	}
	bd.foodShort = true
	return &Bookmark{
		Type:        BookmarkFoodShortage,
		Tick:        stats.WindowEndTick,
		SimTimeSec:  stats.SimTimeSec,
		Description: fmt.Sprintf("Only %d of %d food sources available", stats.FoodAvailable, stats.FoodTotal),
	}
}

func (bd *BookmarkDetector) checkStableColony(stats WindowStats) *Bookmark {
	if stats.Workers < 10 || !stats.QueenAlive {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}
	recent := history[len(history)-4:]

	var sum float64
	for _, h := range recent {
		sum += float64(h.Workers)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Workers) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableColony,
			Tick:        stats.WindowEndTick,
			SimTimeSec:  stats.SimTimeSec,
			Description: fmt.Sprintf("Stable colony of %d workers over 5+ windows", stats.Workers),
		}
	}

	return nil
}
