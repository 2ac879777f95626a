// Package resolve merges association layers and the application catalog
// into the effective association for a MIME type.
//
// Layers are walked from highest to lowest precedence. Each layer's removals
// are applied before its own additions and defaults are considered, so a
// removal vetoes the same layer, every lower layer and the catalog's native
// declarations, but never what a higher layer asserted. Catalog handlers
// come last. Ids that the catalog does not know are dropped silently: stale
// references are normal. Hidden entries never come from the catalog's own
// declarations but stay usable when a layer names them.
//
// Callers that know MIME aliases pass them to Compute so entries keyed by
// an alias merge into the canonical type.
//
// Everything here is pure; callers load layers and scan the catalog first.
package resolve
