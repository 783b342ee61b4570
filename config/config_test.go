package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TargetVolume != 16000 {
		t.Errorf("targetVolume = %d, want 16000", cfg.TargetVolume)
	}
	if cfg.Slices != 100 {
		t.Errorf("slices = %d, want 100", cfg.Slices)
	}
	if cfg.Sphere {
		t.Error("sphere should default to false")
	}
	if cfg.Tuning.Epsilon != 0.02 {
		t.Errorf("tuning.epsilon = %v, want 0.02", cfg.Tuning.Epsilon)
	}
	if len(cfg.Observables) == 0 {
		t.Error("defaults should register observables")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := strings.Join([]string{
		"lambda: 0.7",
		"targetVolume: 64",
		"slices: 8",
		"seed: 42",
		"fileID: scenario-6",
		"measurements: 50",
		"sphere: true",
		"importGeom: true",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Lambda != 0.7 || cfg.TargetVolume != 64 || cfg.Slices != 8 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Seed != 42 || cfg.FileID != "scenario-6" || cfg.Measurements != 50 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.Sphere || !cfg.ImportGeom {
		t.Errorf("boolean overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Output.DataDir != "out" || cfg.Output.GeomDir != "geom" {
		t.Errorf("defaults lost in merge: %+v", cfg.Output)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"odd target volume", "targetVolume: 15"},
		{"tiny target volume", "targetVolume: 2"},
		{"too few slices", "slices: 2"},
		{"negative measurements", "measurements: -1"},
		{"unknown observable", "observables: [nonsense]"},
		{"bad ricci epsilon", "ricciEpsilons: [0]"},
		{"empty fileID", `fileID: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected validation error for %q", tt.body)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("snapshot does not load back: %v", err)
	}
	if again.TargetVolume != cfg.TargetVolume || again.Lambda != cfg.Lambda {
		t.Errorf("round trip changed values: %+v vs %+v", again, cfg)
	}
}
