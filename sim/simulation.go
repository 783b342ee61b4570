// Package sim drives the Markov chain: move selection and acceptance,
// sweeps, the grow and thermalization phases, measurement and
// checkpointing. A Simulation owns the two RNG streams of a run and talks
// to exactly one Universe.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/cdt/observables"
	"github.com/pthm-cable/cdt/telemetry"
	"github.com/pthm-cable/cdt/universe"
)

// Params are the driver knobs of one run.
type Params struct {
	Lambda       float64
	TargetVolume int
	Seed         int64
	Measurements int

	// Epsilon is the volume-fixing strength; zero means the default 0.02.
	Epsilon float64
	// GrowFactor scales the attempts per grow step (units of
	// TargetVolume); zero means 1.
	GrowFactor int
	// SweepFactor scales the attempts per sweep (units of TargetVolume);
	// zero means 100.
	SweepFactor int
	// CoordBoundFactor sets the thermalization bound
	// log2(factor*TargetVolume); zero means 2.
	CoordBoundFactor int
	// CheckpointEvery is the measurement interval between geometry
	// exports; zero means 10.
	CheckpointEvery int

	// GeomDir receives geometry checkpoints; empty disables them.
	GeomDir string
	// DebugChecks runs the integrity check after every sweep.
	DebugChecks bool
}

func (p *Params) fill() {
	if p.Epsilon == 0 {
		p.Epsilon = 0.02
	}
	if p.GrowFactor == 0 {
		p.GrowFactor = 1
	}
	if p.SweepFactor == 0 {
		p.SweepFactor = 100
	}
	if p.CoordBoundFactor == 0 {
		p.CoordBoundFactor = 2
	}
	if p.CheckpointEvery == 0 {
		p.CheckpointEvery = 10
	}
}

// Simulation is the Metropolis driver.
type Simulation struct {
	u      *universe.Universe
	params Params

	// rng feeds move selection and acceptance, obsRNG the observables.
	// Both derive from the base seed through fixed stream offsets, so one
	// seed reproduces one run.
	rng    *rand.Rand
	obsRNG *rand.Rand

	observables []*observables.Observable
	collector   *telemetry.Collector
	output      *telemetry.OutputManager
	rows        []telemetry.SweepStats

	sweep    int
	attempts int64
}

// New wires a driver to a Universe. The output manager may be nil.
func New(u *universe.Universe, params Params, output *telemetry.OutputManager) *Simulation {
	params.fill()
	return &Simulation{
		u:         u,
		params:    params,
		rng:       rand.New(rand.NewPCG(uint64(params.Seed), 0)),
		obsRNG:    rand.New(rand.NewPCG(uint64(params.Seed), 1)),
		collector: telemetry.NewCollector(),
		output:    output,
	}
}

// AddObservable registers an observable for measurement.
func (s *Simulation) AddObservable(o *observables.Observable) {
	s.observables = append(s.observables, o)
}

// Summary returns the run summary over all recorded sweeps.
func (s *Simulation) Summary() telemetry.RunSummary {
	return telemetry.Summarize(s.rows)
}

// Run executes the full schedule: grow and thermalize (unless the geometry
// was imported), then the measurement sweeps.
func (s *Simulation) Run() error {
	for _, o := range s.observables {
		if err := o.Clear(); err != nil {
			return err
		}
	}

	if !s.u.Imported() {
		if err := s.grow(); err != nil {
			return s.fatal(err)
		}
		if err := s.thermalize(); err != nil {
			return s.fatal(err)
		}
		if err := s.checkpoint(); err != nil {
			return s.fatal(err)
		}
	}

	for i := 0; i < s.params.Measurements; i++ {
		if err := s.measureSweep(); err != nil {
			return s.fatal(err)
		}
		if i%s.params.CheckpointEvery == 0 {
			if err := s.checkpoint(); err != nil {
				return s.fatal(err)
			}
		}
	}

	summary := s.Summary()
	slog.Info("run complete",
		"sweeps", summary.Sweeps,
		"volume_mean", summary.VolumeMean,
		"volume_std", summary.VolumeStd,
	)
	return nil
}

// fatal decorates an error with the chain position so the one diagnostic
// line pins down where the run died.
func (s *Simulation) fatal(err error) error {
	return fmt.Errorf("sim: sweep %d, attempt %d: %w", s.sweep, s.attempts, err)
}

// grow runs batches of attempts until the volume first reaches the target.
func (s *Simulation) grow() error {
	steps := 0
	batch := s.params.GrowFactor * s.params.TargetVolume
	for s.u.TriangleCount() < s.params.TargetVolume {
		for i := 0; i < batch; i++ {
			if _, _, err := s.attemptMove(); err != nil {
				return err
			}
		}
		steps++
	}
	slog.Info("grown", "steps", steps, "volume", s.u.TriangleCount())
	return nil
}

// thermalize sweeps until no vertex's upward or downward coordination
// exceeds log2 of twice the target volume, washing out the seed strip.
func (s *Simulation) thermalize() error {
	bound := math.Log2(float64(s.params.CoordBoundFactor * s.params.TargetVolume))
	batch := s.params.SweepFactor * s.params.TargetVolume
	steps := 0
	for {
		for i := 0; i < batch; i++ {
			if _, _, err := s.attemptMove(); err != nil {
				return err
			}
		}
		steps++

		if err := s.u.Prepare(); err != nil {
			return err
		}
		maxUp, maxDown := s.maxCoordinations()
		if float64(maxUp) <= bound && float64(maxDown) <= bound {
			slog.Info("thermalized", "steps", steps, "max_up", maxUp, "max_down", maxDown)
			return nil
		}
	}
}

// maxCoordinations scans the rebuilt adjacency for the largest upward and
// downward vertex coordinations, counting across the periodic seam.
func (s *Simulation) maxCoordinations() (maxUp, maxDown int) {
	n := s.u.NSlices()
	neighbors := s.u.VertexNeighbors()
	for _, v := range s.u.Vertices() {
		vt := s.u.Vertex(v).Time
		up, down := 0, 0
		for _, nb := range neighbors[v] {
			nt := s.u.Vertex(nb).Time
			if nt == (vt+1)%n {
				up++
			}
			if nt == (vt-1+n)%n {
				down++
			}
		}
		if up > maxUp {
			maxUp = up
		}
		if down > maxDown {
			maxDown = down
		}
	}
	return maxUp, maxDown
}

// measureSweep runs one sweep of attempts, pins the volume back to the
// target, rebuilds the adjacency views and invokes every observable.
func (s *Simulation) measureSweep() error {
	s.sweep++
	batch := s.params.SweepFactor * s.params.TargetVolume
	for i := 0; i < batch; i++ {
		if _, _, err := s.attemptMove(); err != nil {
			return err
		}
	}

	for s.u.TriangleCount() != s.params.TargetVolume {
		if _, _, err := s.attemptMove(); err != nil {
			return err
		}
	}

	if err := s.u.Prepare(); err != nil {
		return err
	}
	if s.params.DebugChecks {
		if err := s.u.Check(); err != nil {
			return err
		}
	}

	for _, o := range s.observables {
		if err := o.Measure(s.u, s.obsRNG); err != nil {
			return err
		}
	}

	row := s.collector.Flush(s.sweep, s.u.TriangleCount(), s.u.VertexCount(),
		s.u.FourVertexCount(), s.u.FlippableCount())
	s.rows = append(s.rows, row)
	if err := s.output.WriteSweep(row); err != nil {
		return err
	}
	slog.Info("sweep", "stats", row)
	return nil
}

// checkpoint exports the geometry under the conventional name.
func (s *Simulation) checkpoint() error {
	if s.params.GeomDir == "" {
		return nil
	}
	path := s.u.GeometryFilename(s.params.GeomDir, s.params.TargetVolume, s.params.Seed)
	if err := s.u.ExportGeometry(path); err != nil {
		return err
	}
	slog.Info("checkpoint", "path", path)
	return nil
}
