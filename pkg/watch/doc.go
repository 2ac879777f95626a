// Package watch reloads association state when the files it is built from
// change on disk.
//
// A Watcher registers the directories named by a set of Targets with
// fsnotify, filters events through per-target doublestar patterns and
// coalesces bursts into a single Reload call after a quiet period. Package
// managers typically touch dozens of desktop files at once; the debounce
// turns that into one rescan.
package watch
