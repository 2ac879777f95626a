// Package types defines the core types and interfaces shared by the mimer
// packages: the filesystem abstraction every component reads and writes
// through, the MimeType and ApplicationID identifiers that join catalog and
// association data, and the Diagnostic record returned by read paths.
package types
