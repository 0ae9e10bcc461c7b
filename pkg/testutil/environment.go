// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Build throwaway profile trees for engine tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/slim/pkg/filesystem"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/spf13/afero"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // afero MemMapFs, no symlinks
	EnvIsolated                  // Real filesystem in temp directory
)

// DefaultProfileName is the user name used for test profiles
const DefaultProfileName = "alice"

// ProfileEnvironment holds a profile root and where it relocates to
type ProfileEnvironment struct {
	ProfileRoot    string
	RelocationBase string
	RelocationRoot string
	StateDir       string

	FS   types.FS
	Type EnvType

	t   *testing.T
	afs afero.Fs
}

// NewProfileEnvironment creates an empty profile and relocation base.
// Isolated environments also redirect slim's state and config dirs into
// the temp dir so lock and log files stay out of the real home.
func NewProfileEnvironment(t *testing.T, envType EnvType) *ProfileEnvironment {
	t.Helper()

	env := &ProfileEnvironment{t: t, Type: envType}

	var base string
	switch envType {
	case EnvMemoryOnly:
		base = "/virtual"
		env.afs = afero.NewMemMapFs()
		env.FS = filesystem.NewAferoFS(env.afs)
	case EnvIsolated:
		base = t.TempDir()
		env.afs = afero.NewOsFs()
		env.FS = filesystem.NewOS()
	}

	env.ProfileRoot = filepath.Join(base, "Users", DefaultProfileName)
	env.RelocationBase = filepath.Join(base, "storage")
	env.RelocationRoot = paths.RelocationRoot(env.ProfileRoot, env.RelocationBase, "User_")
	env.StateDir = filepath.Join(base, "state")

	if envType == EnvIsolated {
		t.Setenv(paths.EnvSlimStateDir, env.StateDir)
		t.Setenv(paths.EnvSlimConfigDir, filepath.Join(base, "config"))
	}

	env.MkdirAll(env.ProfileRoot)
	env.MkdirAll(env.RelocationBase)

	return env
}

// Path joins rel onto the profile root
func (env *ProfileEnvironment) Path(rel ...string) string {
	return filepath.Join(append([]string{env.ProfileRoot}, rel...)...)
}

// RelocatedPath joins rel onto the relocation root
func (env *ProfileEnvironment) RelocatedPath(rel ...string) string {
	return filepath.Join(append([]string{env.RelocationRoot}, rel...)...)
}

// MkdirAll creates an absolute directory path
func (env *ProfileEnvironment) MkdirAll(path string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(path, 0755); err != nil {
		env.t.Fatalf("Failed to create directory %s: %v", path, err)
	}
}

// WriteFile writes content to an absolute path, creating parents
func (env *ProfileEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	env.MkdirAll(filepath.Dir(path))
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// WriteFileOfSize creates a file with the given logical size. On the real
// filesystem the file is sparse so hundreds of MiB cost no disk space.
func (env *ProfileEnvironment) WriteFileOfSize(path string, size int64) {
	env.t.Helper()
	env.MkdirAll(filepath.Dir(path))

	f, err := env.afs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		env.t.Fatalf("Failed to create file %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := f.Truncate(size); err != nil {
		env.t.Fatalf("Failed to size file %s: %v", path, err)
	}
}

// Symlink creates link pointing at target. Only valid for EnvIsolated.
func (env *ProfileEnvironment) Symlink(target, link string) {
	env.t.Helper()
	env.MkdirAll(filepath.Dir(link))
	if err := env.FS.Symlink(target, link); err != nil {
		env.t.Fatalf("Failed to create symlink %s -> %s: %v", link, target, err)
	}
}

// WithFileTree creates a tree under root
func (env *ProfileEnvironment) WithFileTree(root string, tree FileTree) {
	env.t.Helper()
	env.createFileTree(root, tree)
}

// FileTree represents a directory structure for testing. Values are
// either file content (string), a size for a sparse sized file (int64) or
// a nested FileTree.
type FileTree map[string]interface{}

// createFileTree recursively creates a file tree
func (env *ProfileEnvironment) createFileTree(basePath string, tree FileTree) {
	env.t.Helper()
	env.MkdirAll(basePath)

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := env.FS.WriteFile(fullPath, []byte(v), 0644); err != nil {
				env.t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case int64:
			env.WriteFileOfSize(fullPath, v)
		case FileTree:
			env.createFileTree(fullPath, v)
		default:
			env.t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
