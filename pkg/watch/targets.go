package watch

import (
	"path/filepath"

	"github.com/arthur-debert/mimer/pkg/paths"
)

// Target is a directory to watch and the files inside it that matter.
// Patterns are doublestar globs matched against the path relative to Dir.
type Target struct {
	Dir       string
	Recursive bool
	Patterns  []string
}

// Patterns for each kind of watched directory
var (
	ConfigPatterns = []string{
		paths.MimeappsList,
		"*-" + paths.MimeappsList,
	}

	ApplicationPatterns = []string{
		"**/*.desktop",
		paths.MimeappsList,
		"*-" + paths.MimeappsList,
		paths.MimeInfoCache,
	}

	PackagePatterns = []string{
		"*.xml",
	}
)

// TargetsFor lists every directory whose contents feed a Session snapshot:
// config dirs for override files, application dirs (recursively) for
// desktop entries and the deprecated override location, and the
// shared-mime-info package dirs.
func TargetsFor(p paths.Paths) []Target {
	var targets []Target
	for _, dir := range p.ConfigDirs() {
		targets = append(targets, Target{Dir: dir, Patterns: ConfigPatterns})
	}
	for _, dir := range p.ApplicationDirs() {
		targets = append(targets, Target{Dir: dir, Recursive: true, Patterns: ApplicationPatterns})
	}
	for _, dir := range p.MimeDirs() {
		targets = append(targets, Target{Dir: filepath.Join(dir, "packages"), Patterns: PackagePatterns})
	}
	return targets
}
