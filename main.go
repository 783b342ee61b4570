// Command cdt samples two-dimensional Causal Dynamical Triangulations
// with Metropolis-Hastings dynamics. It takes the path to a run
// configuration file as its single positional argument.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/cdt/config"
	"github.com/pthm-cable/cdt/observables"
	"github.com/pthm-cable/cdt/sim"
	"github.com/pthm-cable/cdt/telemetry"
	"github.com/pthm-cable/cdt/universe"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s <config.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("starting run",
		"lambda", cfg.Lambda,
		"target_volume", cfg.TargetVolume,
		"slices", cfg.Slices,
		"seed", cfg.Seed,
		"sphere", cfg.Sphere,
		"measurements", cfg.Measurements,
	)

	opts := universe.Options{Sphere: cfg.Sphere}
	var u *universe.Universe
	if cfg.ImportGeom {
		path := universe.GeometryFilename(cfg.Output.GeomDir, cfg.TargetVolume, cfg.Slices, cfg.Seed, cfg.Sphere)
		if _, statErr := os.Stat(path); statErr == nil {
			u, err = universe.Import(path, opts)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
		} else {
			// A missing checkpoint is not fatal; the run starts from a
			// fresh strip.
			slog.Info("no geometry checkpoint found, creating fresh universe", "path", path)
		}
	}
	if u == nil {
		u, err = universe.New(cfg.Slices, opts)
		if err != nil {
			return err
		}
	}

	var output *telemetry.OutputManager
	if cfg.Output.Telemetry {
		output, err = telemetry.NewOutputManager(cfg.Output.DataDir, cfg.FileID)
		if err != nil {
			return err
		}
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			return err
		}
	}

	s := sim.New(u, sim.Params{
		Lambda:           cfg.Lambda,
		TargetVolume:     cfg.TargetVolume,
		Seed:             cfg.Seed,
		Measurements:     cfg.Measurements,
		Epsilon:          cfg.Tuning.Epsilon,
		GrowFactor:       cfg.Tuning.GrowFactor,
		SweepFactor:      cfg.Tuning.SweepFactor,
		CoordBoundFactor: cfg.Tuning.CoordBoundFactor,
		GeomDir:          cfg.Output.GeomDir,
		DebugChecks:      cfg.Tuning.DebugChecks,
	}, output)

	for _, o := range buildObservables(cfg) {
		s.AddObservable(o)
	}

	return s.Run()
}

// buildObservables instantiates the configured observables.
func buildObservables(cfg *config.Config) []*observables.Observable {
	var obs []*observables.Observable
	for _, name := range cfg.Observables {
		switch name {
		case "volume_profile":
			obs = append(obs, observables.VolumeProfile(cfg.FileID, cfg.Output.DataDir))
		case "hausdorff":
			obs = append(obs, observables.Hausdorff(cfg.FileID, cfg.Output.DataDir))
		case "hausdorff_dual":
			obs = append(obs, observables.HausdorffDual(cfg.FileID, cfg.Output.DataDir))
		case "ricci":
			obs = append(obs, observables.Ricci(cfg.FileID, cfg.Output.DataDir, cfg.RicciEpsilons))
		case "ricci_dual":
			obs = append(obs, observables.RicciDual(cfg.FileID, cfg.Output.DataDir, cfg.RicciEpsilons))
		case "ricciv":
			obs = append(obs, observables.RicciV(cfg.FileID, cfg.Output.DataDir, cfg.RicciEpsilons))
		}
	}
	return obs
}
