// Package testutil provides utilities for testing mimer components.
//
// Key components:
//   - TestEnvironment: a fake XDG tree (home, config dirs, data dirs) on an
//     in-memory or temp-dir filesystem, with resolved paths
//   - DesktopFile and Mimeapps: builders for desktop entries and
//     mimeapps.list layers
//   - FS assertions built on testify
//
// Usage guidelines:
//   - Most tests should use EnvMemoryOnly for speed and isolation
//   - Only pkg/filesystem and pkg/watch tests need the real filesystem
//   - Test data is defined inline, not in external files
package testutil
