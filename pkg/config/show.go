package config

import (
	"github.com/pelletier/go-toml/v2"
)

// shown mirrors Config with durations rendered as strings, so the output
// can be pasted back into config.toml.
type shown struct {
	Locale          string     `toml:"locale"`
	DesktopSpecific bool       `toml:"desktop_specific"`
	Desktops        []string   `toml:"desktops"`
	Scan            ScanConfig `toml:"scan"`
	Watch           struct {
		Debounce string `toml:"debounce"`
	} `toml:"watch"`
	Output OutputConfig `toml:"output"`
}

// TOML renders the effective configuration as a config.toml document
func (c *Config) TOML() ([]byte, error) {
	s := shown{
		Locale:          c.Locale,
		DesktopSpecific: c.DesktopSpecific,
		Desktops:        c.Desktops,
		Scan:            c.Scan,
		Output:          c.Output,
	}
	if s.Desktops == nil {
		s.Desktops = []string{}
	}
	s.Watch.Debounce = c.Watch.Debounce.String()
	return toml.Marshal(s)
}
