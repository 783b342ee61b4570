package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/cdt/config"
)

// OutputManager handles structured run output with CSV logging. A nil
// manager is valid and discards everything, so telemetry can be switched
// off without sprinkling conditionals through the driver.
type OutputManager struct {
	dir        string
	sweepsFile *os.File

	headerWritten bool
}

// NewOutputManager creates the output directory and opens the sweep log.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir, fileID string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("sweeps-%s.csv", fileID))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating %s: %w", path, err)
	}
	return &OutputManager{dir: dir, sweepsFile: f}, nil
}

// WriteConfig saves the effective configuration as YAML next to the data.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, fmt.Sprintf("config-%s.yaml", cfg.FileID)))
}

// WriteSweep appends one sweep row to the CSV log. The first write
// includes the header.
func (om *OutputManager) WriteSweep(stats SweepStats) error {
	if om == nil {
		return nil
	}

	records := []SweepStats{stats}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.sweepsFile); err != nil {
			return fmt.Errorf("telemetry: writing sweep stats: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.sweepsFile); err != nil {
		return fmt.Errorf("telemetry: writing sweep stats: %w", err)
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

// Close flushes and closes the sweep log.
func (om *OutputManager) Close() error {
	if om == nil || om.sweepsFile == nil {
		return nil
	}
	return om.sweepsFile.Close()
}
