package config

import "sort"

var Presets = map[string]func() *Config{
	// Reference deployment: 2-DOF horizontal arm, all 18 muscles, 10 ms
	// exchanges over a 1 ms integration step.
	"suny_2dof": DefaultConfig,
	"coordinates_only": func() *Config {
		cfg := DefaultConfig()
		cfg.MuscleStatus = nil
		return cfg
	},
	"realtime": func() *Config {
		cfg := DefaultConfig()
		cfg.Simulation.Duration = 60.0
		cfg.ExcitationSetter.ReadMode = ReadModeLatest
		cfg.CoordinateOutput.DisablePnt = true
		cfg.MuscleStatus.DisablePnt = true
		return cfg
	},
	"elbow_only": func() *Config {
		cfg := DefaultConfig()
		cfg.ExcitationSetter.Muscles = Selection{Names: []string{"TRIlong", "TRIlat", "TRImed", "BIClong", "BICshort", "BRA"}}
		cfg.CoordinateOutput.Coordinates = Selection{Names: []string{"elbow_flex"}}
		cfg.MuscleStatus = nil
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
