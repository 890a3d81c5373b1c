package config

import "sort"

// Presets are named variations applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"canonical": func(c *Config) {
		c.Arena.Start = "canonical"
	},
	"chaos": func(c *Config) {
		c.Arena.Start = "random"
		c.Physics.G = 300
		c.Randomize.VelRange = 4
		c.Run.Seed = 7
	},
	"tight": func(c *Config) {
		c.Arena.Radius = 160
		c.Physics.Dt = 0.01
		c.Events.CloseRange = 40
	},
	"heavy": func(c *Config) {
		c.Arena.Start = "random"
		c.Randomize.MassMin = 200
		c.Randomize.MassMax = 300
		c.Randomize.RadiusMin = 15
		c.Randomize.RadiusMax = 25
		c.Run.Seed = 3
	},
	"binary": func(c *Config) {
		c.Arena.Bodies = 2
	},
}

var PresetInfo = map[string]string{
	"canonical": "three equal bodies, symmetric start",
	"chaos":     "random bodies, strong gravity",
	"tight":     "small arena, frequent impacts",
	"heavy":     "random massive bodies",
	"binary":    "two bodies in mutual orbit",
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
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
