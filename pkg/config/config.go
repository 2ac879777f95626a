package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/paths"
)

// FileName is the user config file inside the mimer config dir
const FileName = "config.toml"

// Output formats accepted by output.format
var Formats = []string{"auto", "term", "text", "json", "yaml"}

// Config is the effective configuration
type Config struct {
	Locale          string       `koanf:"locale" toml:"locale"`
	DesktopSpecific bool         `koanf:"desktop_specific" toml:"desktop_specific"`
	Desktops        []string     `koanf:"desktops" toml:"desktops"`
	Scan            ScanConfig   `koanf:"scan" toml:"scan"`
	Watch           WatchConfig  `koanf:"watch" toml:"watch"`
	Output          OutputConfig `koanf:"output" toml:"output"`

	// Source is the user file that was loaded, if any
	Source string `koanf:"-" toml:"-"`
}

// ScanConfig tunes catalog scans and layer loads
type ScanConfig struct {
	Workers   int `koanf:"workers" toml:"workers"`
	CacheSize int `koanf:"cache_size" toml:"cache_size"`
}

// WatchConfig tunes `mimer watch`
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" toml:"debounce"`
}

// OutputConfig selects the CLI output format
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"`
	// Styles is an optional YAML file replacing the terminal styles
	Styles string `koanf:"styles" toml:"styles"`
}

// DefaultPath returns $XDG_CONFIG_HOME/mimer/config.toml for dirs
func DefaultPath(dirs paths.Dirs) string {
	return filepath.Join(dirs.ConfigHome, paths.AppName, FileName)
}

// DesktopNames returns the desktops to use for desktop-specific lists, or
// nil when they are disabled. Configured names win over the environment.
func (c *Config) DesktopNames(env paths.Env) []string {
	if !c.DesktopSpecific {
		return nil
	}
	if len(c.Desktops) > 0 {
		names := make([]string, len(c.Desktops))
		for i, d := range c.Desktops {
			names[i] = strings.ToLower(strings.TrimSpace(d))
		}
		return names
	}
	return paths.CurrentDesktops(env)
}

func (c *Config) validate() error {
	if c.Scan.Workers < 1 {
		return errors.Newf(errors.ErrConfigLoad, "scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.CacheSize < 1 {
		return errors.Newf(errors.ErrConfigLoad, "scan.cache_size must be at least 1, got %d", c.Scan.CacheSize)
	}
	if c.Watch.Debounce <= 0 {
		return errors.Newf(errors.ErrConfigLoad, "watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	for _, f := range Formats {
		if c.Output.Format == f {
			return nil
		}
	}
	return errors.Newf(errors.ErrConfigLoad, "output.format %q is not one of %v", c.Output.Format, Formats)
}
