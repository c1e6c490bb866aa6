package config

// Presets are ready-made scenarios keyed by model then preset name.
var Presets = map[string]map[string]*Config{
	"ecology": {
		"classic": {
			Model: "ecology", Method: "rk45", Time: 200, Dt: 0.2,
		},
		"crowded": {
			Model: "ecology", Method: "rk45", Time: 200, Dt: 0.2,
			Params: map[string]float64{"initialPrey": 20, "initialPredator": 15},
		},
		"slow-burn": {
			Model: "ecology", Method: "rk45", Time: 300, Dt: 0.2,
			Params: map[string]float64{"preyBirthRate": 0.1, "predatorDeathRate": 0.1},
		},
	},
	"epi": {
		"mild": {
			Model: "epi", Method: "rk45", Time: 300,
			Params: map[string]float64{"reproductionNumber": 1.2},
		},
		"severe": {
			Model: "epi", Method: "rk45", Time: 150,
			Params: map[string]float64{"reproductionNumber": 4, "infectiousPeriod": 5},
		},
	},
	"goodwin": {
		"classic": {
			Model: "goodwin", Method: "rk45", Time: 100, Dt: 0.1,
		},
		"long-cycle": {
			Model: "goodwin", Method: "rk45", Time: 400, Dt: 0.1,
			Params: map[string]float64{"accelerator": 4},
		},
	},
	"keen": {
		"stable": {
			Model: "keen", Method: "rk45", Time: 100, Dt: 0.1,
		},
		"debt-spiral": {
			Model: "keen", Method: "rk45", Time: 150, Dt: 0.1,
			Params: map[string]float64{"interest": 0.06},
		},
	},
	"turchin": {
		"secular-cycle": {
			Model: "turchin", Method: "rk45", Time: 500,
		},
	},
	"fathers": {
		"generational": {
			Model: "fathers", Method: "euler", Time: 100, Dt: 0.5,
		},
	},
}

// GetPreset returns a named preset, or nil if the model or preset is
// unknown.
func GetPreset(model, name string) *Config {
	presets, ok := Presets[model]
	if !ok {
		return nil
	}
	return presets[name]
}

// ListPresets returns the preset names for a model, or nil if the model
// has none.
func ListPresets(model string) []string {
	presets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
