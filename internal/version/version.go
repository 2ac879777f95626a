package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/mimer/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/mimer/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/mimer/internal/version.Date={{.Date}}
)

// Info is the build information in machine-readable form
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String renders the build information on one line
func (i Info) String() string {
	return fmt.Sprintf("mimer %s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
