package mimer

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Inspect and edit the applications that open each file type"
	MsgListShort       = "List MIME types and the application that opens each"
	MsgShowShort       = "Show how a MIME type resolves"
	MsgAppShort        = "Show an installed application and the types it handles"
	MsgSetDefaultShort = "Make an application the default for a MIME type"
	MsgAddShort        = "Offer an application for a MIME type"
	MsgRemoveShort     = "Stop offering an application for a MIME type"
	MsgResetShort      = "Drop your own default for a MIME type"
	MsgDoctorShort     = "Report problems in desktop entries and association files"
	MsgWatchShort      = "Reload whenever association files change"
	MsgPathsShort      = "Show the files and directories mimer reads"
	MsgConfigShort     = "Inspect mimer's own settings"
	MsgConfigShowShort = "Print the effective settings as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Result messages
	MsgDefaultSet         = "%s now opens %s (%s)"
	MsgAssociationAdded   = "%s is now offered for %s (%s)"
	MsgAssociationRemoved = "%s is no longer offered for %s (%s)"
	MsgDefaultReset       = "Your default for %s was dropped (%s)"
	MsgWatching           = "Watching %d directories, press Ctrl-C to stop"
	MsgReloaded           = "Reloaded after %d change(s)"
	MsgReloadFailed       = "reload failed: %w"
	MsgProblemsSummary    = "%d problem(s) found while reading, run 'mimer doctor' for details"
	MsgNoProblems         = "No problems found."
	MsgManWritten         = "Man pages written to %s"
	MsgConfigSource       = "# loaded from %s\n"
	MsgConfigDefaults     = "# built-in defaults, no config file at %s\n"

	// Error messages
	MsgErrDoctor  = "doctor found %d error(s)"
	MsgErrManDir  = "failed to create man page directory: %w"
	MsgErrManPage = "failed to generate man pages: %w"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat  = "Output format: auto, term, text, json or yaml"
	MsgFlagConfig  = "Config file (default $XDG_CONFIG_HOME/mimer/config.toml)"
	MsgFlagManDir  = "Directory to write man pages to"
	MsgFlagLocale  = "Locale for application names (overrides the locale setting)"
	MsgFlagDesktop = "Read <desktop>-mimeapps.list files for these desktops"

	// Examples
	MsgListExample = `  mimer list
  mimer list image/
  mimer list --format json`
	MsgSetDefaultExample = `  mimer set-default application/pdf org.gnome.Evince.desktop
  mimer set-default text/plain gedit`
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/show-long.txt
	msgShowLongRaw string
	MsgShowLong    = strings.TrimSpace(msgShowLongRaw)

	//go:embed msgs/set-default-long.txt
	msgSetDefaultLongRaw string
	MsgSetDefaultLong    = strings.TrimSpace(msgSetDefaultLongRaw)

	//go:embed msgs/remove-long.txt
	msgRemoveLongRaw string
	MsgRemoveLong    = strings.TrimSpace(msgRemoveLongRaw)

	//go:embed msgs/doctor-long.txt
	msgDoctorLongRaw string
	MsgDoctorLong    = strings.TrimSpace(msgDoctorLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
