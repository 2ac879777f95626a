// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate fake XDG trees with resolved paths

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/mimer/pkg/filesystem"
	"github.com/arthur-debert/mimer/pkg/paths"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// NewTestFS returns an empty in-memory filesystem
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// TestEnvironment is a fake XDG installation: a user home with config and
// data homes, one system config dir and two system data dirs.
type TestEnvironment struct {
	Root    string
	HomeDir string

	Env   paths.MapEnv
	Dirs  paths.Dirs
	Paths paths.Paths
	FS    types.FS

	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.Root = "/virtual"
		env.FS = NewTestFS()
	case EnvIsolated:
		env.Root = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.HomeDir = filepath.Join(env.Root, "home")
	env.Env = paths.MapEnv{
		paths.EnvHome:       env.HomeDir,
		paths.EnvConfigHome: filepath.Join(env.HomeDir, ".config"),
		paths.EnvDataHome:   filepath.Join(env.HomeDir, ".local", "share"),
		paths.EnvStateHome:  filepath.Join(env.HomeDir, ".local", "state"),
		paths.EnvConfigDirs: filepath.Join(env.Root, "etc", "xdg"),
		paths.EnvDataDirs: filepath.Join(env.Root, "usr", "local", "share") + ":" +
			filepath.Join(env.Root, "usr", "share"),
	}
	env.resolve()

	for _, dir := range []string{env.HomeDir, env.Dirs.ConfigHome, env.Dirs.DataHome} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	return env
}

// WithDesktops rebuilds Paths with desktop-specific layers for desktops
func (env *TestEnvironment) WithDesktops(desktops ...string) *TestEnvironment {
	env.Paths = paths.New(env.Dirs, desktops)
	return env
}

func (env *TestEnvironment) resolve() {
	env.Dirs = paths.Resolve(env.Env)
	env.Paths = paths.New(env.Dirs, nil)
}

// UserApps is $XDG_DATA_HOME/applications
func (env *TestEnvironment) UserApps() string {
	return filepath.Join(env.Dirs.DataHome, paths.ApplicationsDir)
}

// SystemApps is the applications dir of the lowest system data dir
func (env *TestEnvironment) SystemApps() string {
	return filepath.Join(env.Dirs.DataDirs[len(env.Dirs.DataDirs)-1], paths.ApplicationsDir)
}

// LocalApps is the applications dir of the first system data dir
func (env *TestEnvironment) LocalApps() string {
	return filepath.Join(env.Dirs.DataDirs[0], paths.ApplicationsDir)
}

// UserMimeapps is $XDG_CONFIG_HOME/mimeapps.list, the writable layer
func (env *TestEnvironment) UserMimeapps() string {
	return filepath.Join(env.Dirs.ConfigHome, paths.MimeappsList)
}

// SystemMimeapps is the mimeapps.list of the system config dir
func (env *TestEnvironment) SystemMimeapps() string {
	return filepath.Join(env.Dirs.ConfigDirs[0], paths.MimeappsList)
}

// MimePackages is the shared-mime-info packages dir of the lowest data dir
func (env *TestEnvironment) MimePackages() string {
	return filepath.Join(env.Dirs.DataDirs[len(env.Dirs.DataDirs)-1], paths.MimeDir, "packages")
}

// WriteFile writes content to path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it is absent
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// AddApp writes app as <dir>/<id>. Ids with subdirectories ("kde4/x.desktop")
// create them.
func (env *TestEnvironment) AddApp(dir, id string, app DesktopFile) string {
	env.t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(id))
	env.WriteFile(path, app.String())
	return path
}

// WithFileTree creates a complete file tree structure under root
func (env *TestEnvironment) WithFileTree(root string, tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, root, tree)
}

// FileTree represents a directory structure for testing
type FileTree map[string]interface{}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
