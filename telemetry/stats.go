package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// SweepStats holds the aggregated statistics of one sweep.
type SweepStats struct {
	Sweep int `csv:"sweep"`

	// Geometry counters at sweep end
	Volume       int `csv:"volume"`
	Vertices     int `csv:"vertices"`
	FourVertices int `csv:"four_vertices"`
	Flippable    int `csv:"flippable"`

	// Move accounting during the sweep
	InsertAttempts int `csv:"insert_attempts"`
	InsertAccepted int `csv:"insert_accepted"`
	DeleteAttempts int `csv:"delete_attempts"`
	DeleteAccepted int `csv:"delete_accepted"`
	FlipAttempts   int `csv:"flip_attempts"`
	FlipAccepted   int `csv:"flip_accepted"`

	AcceptanceRate float64 `csv:"acceptance_rate"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s SweepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sweep", s.Sweep),
		slog.Int("volume", s.Volume),
		slog.Int("vertices", s.Vertices),
		slog.Int("four_vertices", s.FourVertices),
		slog.Int("flippable", s.Flippable),
		slog.Int("insert_accepted", s.InsertAccepted),
		slog.Int("delete_accepted", s.DeleteAccepted),
		slog.Int("flip_accepted", s.FlipAccepted),
		slog.Float64("acceptance_rate", s.AcceptanceRate),
	)
}

// RunSummary condenses the volume series of a measurement run.
type RunSummary struct {
	Sweeps     int
	VolumeMean float64
	VolumeStd  float64
}

// Summarize computes the run summary from the recorded sweep rows.
func Summarize(rows []SweepStats) RunSummary {
	if len(rows) == 0 {
		return RunSummary{}
	}
	volumes := make([]float64, len(rows))
	for i, r := range rows {
		volumes[i] = float64(r.Volume)
	}
	return RunSummary{
		Sweeps:     len(rows),
		VolumeMean: stat.Mean(volumes, nil),
		VolumeStd:  stat.StdDev(volumes, nil),
	}
}
