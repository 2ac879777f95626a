// Package mutate edits the user's own association layer.
//
// Only the top file of the layer path is ever written. Every operation
// validates its input, then, under a process-wide lock, re-reads the file,
// edits the parsed document and replaces the file atomically. Running the
// same operation twice leaves the file byte-identical to running it once.
//
// The lock serializes mutations issued through one Engine. It does not
// protect against other processes editing the same file.
package mutate
