// Package core is the in-process front end of mimer.
//
// A Session ties the pieces together: it scans the desktop entry catalog,
// loads every mimeapps.list layer and the shared-mime-info database into
// an immutable snapshot, answers queries from that snapshot and sends
// edits to the mutation engine.
//
// # Snapshots
//
// Reload builds a complete new snapshot before swapping it in under a
// write lock, so concurrent readers always see one consistent state. A
// cancelled reload leaves the previous snapshot untouched.
//
// # Mutations
//
// Every edit goes to the top file of the layer path, the user's
// $XDG_CONFIG_HOME/mimeapps.list. After a successful write the session
// reloads, so the next query reflects the change. Setting a default or
// adding an association requires the application to be installed;
// removing one does not, which lets users veto stale references. Hidden
// entries count as installed.
//
// # Aliases
//
// MIME aliases known to the shared-mime-info database are folded into
// their canonical type: queries accept either name, entries keyed by an
// alias in any layer apply to the canonical type, and edits are written
// under the canonical name.
package core
