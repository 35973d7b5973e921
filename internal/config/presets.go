package config

import "sort"

var Presets = map[string]*Config{
	"reference": {
		Points: 11, Courant: 0.25, Iterations: 40,
		Integrator: "midpoint", Profile: "sine", OutputEvery: 40, Store: true,
	},
	"fine": {
		Points: 101, Courant: 0.25, Iterations: 400,
		Integrator: "midpoint", Profile: "sine", OutputEvery: 20, Store: true,
	},
	"coarse": {
		Points: 5, Courant: 0.5, Iterations: 8,
		Integrator: "midpoint", Profile: "sine", OutputEvery: 1, Store: true,
	},
	"pluck": {
		Points: 51, Courant: 0.2, Iterations: 250,
		Integrator: "midpoint", Profile: "pluck", OutputEvery: 10, Store: true,
	},
	"euler": {
		Points: 11, Courant: 0.05, Iterations: 200,
		Integrator: "euler", Profile: "sine", OutputEvery: 20, Store: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
