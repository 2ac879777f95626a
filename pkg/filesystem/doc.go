// Package filesystem implements types.FS over afero, for the real OS and
// for in-memory tests, and provides the atomic replace used for every
// write to a mimeapps.list.
package filesystem
