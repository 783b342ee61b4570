// Package observables measures geometric properties of the current
// triangulation and appends one line per measurement to a per-observable
// data file. An Observable is a name, a file identity and a process
// closure over the Universe; no further structure is required of
// implementations.
package observables

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/pthm-cable/cdt/universe"
)

// ProcessFunc computes one measurement line from a prepared Universe.
// Random sampling must draw exclusively from the supplied generator, the
// observable stream of the run.
type ProcessFunc func(u *universe.Universe, rng *rand.Rand) (string, error)

// Observable writes one output line per measurement to
// {dir}/{name}-{fileID}.dat.
type Observable struct {
	name    string
	fileID  string
	dir     string
	process ProcessFunc
}

// New wraps a process closure into an Observable.
func New(name, fileID, dir string, process ProcessFunc) *Observable {
	return &Observable{name: name, fileID: fileID, dir: dir, process: process}
}

// Name returns the observable's name.
func (o *Observable) Name() string { return o.name }

// Path returns the output file path.
func (o *Observable) Path() string {
	return filepath.Join(o.dir, fmt.Sprintf("%s-%s.dat", o.name, o.fileID))
}

// Clear creates the output directory and truncates the data file. It runs
// once at the start of a run.
func (o *Observable) Clear() error {
	if err := os.MkdirAll(o.dir, 0755); err != nil {
		return fmt.Errorf("observable %s: creating output dir: %w", o.name, err)
	}
	f, err := os.Create(o.Path())
	if err != nil {
		return fmt.Errorf("observable %s: truncating output: %w", o.name, err)
	}
	return f.Close()
}

// Measure computes one line and appends it to the data file.
func (o *Observable) Measure(u *universe.Universe, rng *rand.Rand) error {
	line, err := o.process(u, rng)
	if err != nil {
		return fmt.Errorf("observable %s: %w", o.name, err)
	}
	f, err := os.OpenFile(o.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("observable %s: opening output: %w", o.name, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("observable %s: writing output: %w", o.name, err)
	}
	return nil
}

// randomVertex draws a uniform vertex from the measured vertex list.
func randomVertex(u *universe.Universe, rng *rand.Rand) universe.VertexLabel {
	vs := u.Vertices()
	return vs[rng.IntN(len(vs))]
}

// randomTriangle draws a uniform triangle from the measured triangle list.
func randomTriangle(u *universe.Universe, rng *rand.Rand) universe.TriangleLabel {
	ts := u.Triangles()
	return ts[rng.IntN(len(ts))]
}
