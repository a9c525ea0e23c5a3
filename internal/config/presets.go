package config

import (
	"sort"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

// Presets are variations of the default scene keyed by name.
var Presets = map[string]func(*Config){
	"template": func(c *Config) {},
	"push": func(c *Config) {
		c.Pendulum.Vel = dynamo.V(4, 0, 0)
	},
	"long": func(c *Config) {
		c.EndTime = 5.0
	},
	"fine": func(c *Config) {
		c.Step = 0.005
	},
	"moon": func(c *Config) {
		c.Gravity = dynamo.V(0, -1.62, 0)
		c.EndTime = 5.0
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
