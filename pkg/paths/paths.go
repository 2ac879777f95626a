package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	EnvConfigHome     = "XDG_CONFIG_HOME"
	EnvConfigDirs     = "XDG_CONFIG_DIRS"
	EnvDataHome       = "XDG_DATA_HOME"
	EnvDataDirs       = "XDG_DATA_DIRS"
	EnvStateHome      = "XDG_STATE_HOME"
	EnvCurrentDesktop = "XDG_CURRENT_DESKTOP"
	EnvHome           = "HOME"
)

// Documented defaults and well-known file names
const (
	DefaultConfigDirs = "/etc/xdg"
	DefaultDataDirs   = "/usr/local/share:/usr/share"

	// MimeappsList is the association override file name
	MimeappsList = "mimeapps.list"

	// ApplicationsDir is the data subdirectory holding desktop entries
	ApplicationsDir = "applications"

	// MimeInfoCache is the reverse index written by update-desktop-database
	MimeInfoCache = "mimeinfo.cache"

	// MimeDir is the data subdirectory of the shared-mime-info database
	MimeDir = "mime"

	// AppName is used for mimer's own config and state directories
	AppName = "mimer"
)

// Env looks up environment variables
type Env interface {
	Getenv(key string) string
}

// MapEnv is an Env backed by a map, for tests and embedding
type MapEnv map[string]string

// Getenv implements Env
func (m MapEnv) Getenv(key string) string { return m[key] }

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// OSEnv returns the process environment
func OSEnv() Env { return osEnv{} }

// Dirs holds the resolved XDG base directories
type Dirs struct {
	ConfigHome string
	ConfigDirs []string
	DataHome   string
	DataDirs   []string
	StateHome  string
}

// Resolve computes the base directories from env, substituting the
// documented default for every unset or empty variable.
func Resolve(env Env) Dirs {
	home := env.Getenv(EnvHome)
	if home == "" {
		home = GetHomeDirectoryWithDefault("/")
	}

	return Dirs{
		ConfigHome: firstAbs(env.Getenv(EnvConfigHome), filepath.Join(home, ".config")),
		ConfigDirs: splitList(env.Getenv(EnvConfigDirs), DefaultConfigDirs),
		DataHome:   firstAbs(env.Getenv(EnvDataHome), filepath.Join(home, ".local", "share")),
		DataDirs:   splitList(env.Getenv(EnvDataDirs), DefaultDataDirs),
		StateHome:  firstAbs(env.Getenv(EnvStateHome), filepath.Join(home, ".local", "state")),
	}
}

// FromXDG re-reads the process environment through the xdg package.
func FromXDG() Dirs {
	xdg.Reload()
	return Dirs{
		ConfigHome: xdg.ConfigHome,
		ConfigDirs: absOnly(xdg.ConfigDirs),
		DataHome:   xdg.DataHome,
		DataDirs:   absOnly(xdg.DataDirs),
		StateHome:  xdg.StateHome,
	}
}

// CurrentDesktops returns the lowercased names listed in XDG_CURRENT_DESKTOP
func CurrentDesktops(env Env) []string {
	var out []string
	for _, d := range strings.Split(env.Getenv(EnvCurrentDesktop), ":") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return dedupe(out)
}

// LayerPath is the ordered list of association override files, highest
// precedence first.
type LayerPath []string

// Top returns the only file mimer writes
func (l LayerPath) Top() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// Paths provides the search paths consumed by the catalog and the store
type Paths interface {
	ConfigDirs() []string
	DataDirs() []string
	ApplicationDirs() []string
	MimeDirs() []string
	LayerPath() LayerPath
	UserConfigDir() string
	StateDir() string
}

type paths struct {
	dirs     Dirs
	desktops []string
}

// New creates a Paths from resolved directories. desktops, when non-empty,
// adds $desktop-mimeapps.list files ahead of mimeapps.list in each directory.
func New(dirs Dirs, desktops []string) Paths {
	return &paths{dirs: dirs, desktops: dedupe(desktops)}
}

// ConfigDirs returns the user config home followed by the system config dirs
func (p *paths) ConfigDirs() []string {
	return dedupe(append([]string{p.dirs.ConfigHome}, p.dirs.ConfigDirs...))
}

// DataDirs returns the user data home followed by the system data dirs
func (p *paths) DataDirs() []string {
	return dedupe(append([]string{p.dirs.DataHome}, p.dirs.DataDirs...))
}

// ApplicationDirs returns <datadir>/applications for every data dir
func (p *paths) ApplicationDirs() []string {
	return joinAll(p.DataDirs(), ApplicationsDir)
}

// MimeDirs returns <datadir>/mime for every data dir
func (p *paths) MimeDirs() []string {
	return joinAll(p.DataDirs(), MimeDir)
}

// LayerPath returns every mimeapps.list location in precedence order.
// Config directories come first; the deprecated data-directory locations
// follow as the lowest-precedence fallback.
func (p *paths) LayerPath() LayerPath {
	var files []string
	dirs := append(p.ConfigDirs(), p.ApplicationDirs()...)
	for _, dir := range dirs {
		for _, desktop := range p.desktops {
			files = append(files, filepath.Join(dir, desktop+"-"+MimeappsList))
		}
		files = append(files, filepath.Join(dir, MimeappsList))
	}
	return LayerPath(dedupe(files))
}

// UserConfigDir returns mimer's own configuration directory
func (p *paths) UserConfigDir() string {
	return filepath.Join(p.dirs.ConfigHome, AppName)
}

// StateDir returns mimer's state directory
func (p *paths) StateDir() string {
	return filepath.Join(p.dirs.StateHome, AppName)
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", err
	}
	return homeDir, nil
}

// GetHomeDirectoryWithDefault returns the home directory or a default value
func GetHomeDirectoryWithDefault(defaultDir string) string {
	homeDir, err := GetHomeDirectory()
	if err != nil {
		return defaultDir
	}
	return homeDir
}

func firstAbs(value, fallback string) string {
	if value != "" && filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return fallback
}

func splitList(value, fallback string) []string {
	if value == "" {
		value = fallback
	}
	out := absOnly(strings.Split(value, ":"))
	if len(out) == 0 {
		out = absOnly(strings.Split(fallback, ":"))
	}
	return out
}

// absOnly drops empty and relative entries; the base-dir spec treats them
// as invalid.
func absOnly(in []string) []string {
	out := make([]string, 0, len(in))
	for _, dir := range in {
		dir = strings.TrimSpace(dir)
		if dir == "" || !filepath.IsAbs(dir) {
			continue
		}
		out = append(out, filepath.Clean(dir))
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func joinAll(dirs []string, elem string) []string {
	out := make([]string, len(dirs))
	for i, dir := range dirs {
		out[i] = filepath.Join(dir, elem)
	}
	return out
}
