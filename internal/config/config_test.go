package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Simulation.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.MuscleStatus.FrameWidth != 18 {
		t.Errorf("expected frame width 18, got %d", cfg.MuscleStatus.FrameWidth)
	}
	if got := cfg.Handlers(); len(got) != 3 || got[0] != "excitation_setter" {
		t.Errorf("unexpected handler order %v", got)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := `
simulation:
  dt: 0.002
  duration: 0.5
coordinate_output:
  interval: 0.02
  body: arm
  coordinates: "arm_flex elbow_flex"
  pnt_output: coords.pnt
muscle_status:
  interval: 0.01
  force_subsystem: arm_muscles
  muscles:
    all: "TRUE"
  variables:
    names: [excitation, force]
excitation_setter: ~
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Simulation.Dt != 0.002 || cfg.Simulation.Duration != 0.5 {
		t.Errorf("simulation not overridden: %+v", cfg.Simulation)
	}
	if cfg.Simulation.Integrator != DefaultIntegrator {
		t.Errorf("integrator default lost: %q", cfg.Simulation.Integrator)
	}
	if cfg.ExcitationSetter != nil {
		t.Error("null block should disable the excitation setter")
	}
	co := cfg.CoordinateOutput
	if co.Interval != 0.02 || co.PntOutput != "coords.pnt" {
		t.Errorf("coordinate output not decoded: %+v", co)
	}
	if co.Coordinates.All || len(co.Coordinates.Names) != 2 || co.Coordinates.Names[1] != "elbow_flex" {
		t.Errorf("string selection not split: %+v", co.Coordinates)
	}
	if !cfg.MuscleStatus.Muscles.All {
		t.Error("all: TRUE should select all muscles")
	}
	vars := cfg.MuscleStatus.Variables
	if vars.All || len(vars.Names) != 2 || vars.Names[0] != "excitation" {
		t.Errorf("variables not decoded: %+v", vars)
	}
	if cfg.MuscleStatus.FrameWidth != DefaultFrameWidth {
		t.Errorf("frame width default lost: %d", cfg.MuscleStatus.FrameWidth)
	}
}

func TestSelectionForms(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		all   bool
		names []string
	}{
		{"bool all", "sel: {all: true}", true, nil},
		{"string all", "sel: all", true, nil},
		{"all false", "sel: {all: false, names: [a]}", false, []string{"a"}},
		{"list", "sel: [a, b]", false, []string{"a", "b"}},
		{"text", "sel: \"a  b\tc\"", false, []string{"a", "b", "c"}},
		{"names text", "sel: {names: a b}", false, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Sel Selection `yaml:"sel"`
			}
			if err := unmarshal(tt.doc, &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if doc.Sel.All != tt.all {
				t.Errorf("All = %v, want %v", doc.Sel.All, tt.all)
			}
			if len(doc.Sel.Names) != len(tt.names) {
				t.Fatalf("Names = %v, want %v", doc.Sel.Names, tt.names)
			}
			for i := range tt.names {
				if doc.Sel.Names[i] != tt.names[i] {
					t.Errorf("Names[%d] = %q, want %q", i, doc.Sel.Names[i], tt.names[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Simulation.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Simulation.Duration = -1 }},
		{"missing integrator", func(c *Config) { c.Simulation.Integrator = "" }},
		{"negative interval", func(c *Config) { c.CoordinateOutput.Interval = -0.01 }},
		{"missing body", func(c *Config) { c.CoordinateOutput.Body = "" }},
		{"missing subsystem", func(c *Config) { c.MuscleStatus.ForceSubsystem = "" }},
		{"bad read mode", func(c *Config) { c.ExcitationSetter.ReadMode = "polling" }},
		{"negative width", func(c *Config) { c.MuscleStatus.FrameWidth = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	cfg := DefaultConfig()
	cfg.MuscleStatus.Variables = Selection{Names: []string{"force", "capacity"}}
	cfg.Arm.MaxIsometricForce = map[string]float64{"DELT2": 0}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.MuscleStatus.Variables.All || len(loaded.MuscleStatus.Variables.Names) != 2 {
		t.Errorf("variables lost in round trip: %+v", loaded.MuscleStatus.Variables)
	}
	if !loaded.ExcitationSetter.Muscles.All {
		t.Error("all selection lost in round trip")
	}
	if v, ok := loaded.Arm.MaxIsometricForce["DELT2"]; !ok || v != 0 {
		t.Errorf("max isometric override lost: %v", loaded.Arm.MaxIsometricForce)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("coordinates_only")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.MuscleStatus != nil {
		t.Error("coordinates_only should disable muscle status")
	}

	again := GetPreset("suny_2dof")
	again.Simulation.Dt = 1
	if GetPreset("suny_2dof").Simulation.Dt == 1 {
		t.Error("presets must return independent copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
