// Package mimeapps reads and edits mimeapps.list files.
//
// A Document keeps every line of the file it was parsed from. Reads project
// the three recognised sections into a Layer; edits rewrite, insert or delete
// single entry lines and leave every other byte alone, so unknown groups,
// comments, blank lines and even unparsable lines survive a mutation.
//
// The Store loads one Layer per LayerPath slot. Missing files are normal and
// yield an empty layer; unreadable or invalid files yield an empty layer plus
// a diagnostic. Loading never fails for file-level reasons.
package mimeapps
