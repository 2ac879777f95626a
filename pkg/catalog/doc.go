// Package catalog discovers installed applications.
//
// A Scanner walks every applications directory (in data-dir precedence
// order), parses each .desktop file with package desktop and assembles a
// Registry: a lookup by application id plus a reverse index from MIME type
// to the applications that declare it. The first directory defining an id
// wins; entries marked Hidden shadow lower ones and declare no MIME types,
// though association layers may still name them.
//
// Directory walks run in parallel; merging happens on one goroutine so the
// result does not depend on scheduling. Parsed entries are kept in an LRU
// cache keyed by path and validated by size and modification time, which
// makes rescans after a mutation cheap.
package catalog
