package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/antnest/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File
	bookmarkFile  *os.File
	eventFile     *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
	bookmarkHeaderWritten  bool
	eventHeaderWritten     bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	// Open telemetry.csv
	telemetryPath := filepath.Join(dir, "telemetry.csv")
	f, err := os.Create(telemetryPath)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	// Open perf.csv
	perfPath := filepath.Join(dir, "perf.csv")
	f, err = os.Create(perfPath)
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	// Open bookmarks.csv
	bookmarkPath := filepath.Join(dir, "bookmarks.csv")
	f, err = os.Create(bookmarkPath)
	if err != nil {
		om.telemetryFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating bookmarks.csv: %w", err)
	}
	om.bookmarkFile = f

	// Open events.csv
	eventPath := filepath.Join(dir, "events.csv")
	f, err = os.Create(eventPath)
	if err != nil {
		om.telemetryFile.Close()
		om.perfFile.Close()
		om.bookmarkFile.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}

	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}

	csvRecord := stats.ToCSV(windowEnd)
	records := []PerfStatsCSV{csvRecord}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}

	records := []Bookmark{b}

	if !om.bookmarkHeaderWritten {
		if err := gocsv.Marshal(records, om.bookmarkFile); err != nil {
			return fmt.Errorf("writing bookmark: %w", err)
		}
		om.bookmarkHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.bookmarkFile); err != nil {
			return fmt.Errorf("writing bookmark: %w", err)
		}
	}

	return nil
}

// WriteEvent writes a colony event to events.csv.
func (om *OutputManager) WriteEvent(e Event) error {
	if om == nil {
		return nil
	}

	records := []Event{e}

	if !om.eventHeaderWritten {
		if err := gocsv.Marshal(records, om.eventFile); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
		om.eventHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.eventFile); err != nil {
			return fmt.Errorf("writing event: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.telemetryFile != nil {
		if err := om.telemetryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.bookmarkFile != nil {
		if err := om.bookmarkFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.eventFile != nil {
		if err := om.eventFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
