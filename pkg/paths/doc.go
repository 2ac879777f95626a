// Package paths computes the ordered search paths mimer reads from.
//
// It implements the XDG Base Directory specification for the four variables
// that matter to MIME associations and derives from them the two lists the
// rest of the system consumes:
//
//   - the application directories (<datadir>/applications) scanned for
//     desktop entries, highest precedence first
//   - the LayerPath: every mimeapps.list location in precedence order, the
//     first one being the only file mimer ever writes
//
// # Environment Variables
//
//   - XDG_CONFIG_HOME: user config root (default: $HOME/.config)
//   - XDG_CONFIG_DIRS: system config search path (default: /etc/xdg)
//   - XDG_DATA_HOME: user data root (default: $HOME/.local/share)
//   - XDG_DATA_DIRS: system data search path (default: /usr/local/share:/usr/share)
//   - XDG_CURRENT_DESKTOP: desktop names for $desktop-mimeapps.list lookups
//
// Unset or empty variables use the default. Multi-path values are split on
// ':' keeping their order; relative entries are ignored; repeated
// directories keep their first position. Nothing here touches the
// filesystem: directories that do not exist are skipped by the readers.
//
// # Usage
//
//	p := paths.New(paths.FromXDG(), nil)
//	for _, f := range p.LayerPath() {
//	    ...
//	}
package paths
