// pkg/testutil/environment_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test ProfileEnvironment setup and FaultyFS injection

package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileEnvironment_MemoryOnly(t *testing.T) {
	env := NewProfileEnvironment(t, EnvMemoryOnly)

	assert.Equal(t, filepath.Join("/virtual", "Users", "alice"), env.ProfileRoot)
	assert.Equal(t, filepath.Join("/virtual", "storage", "User_alice"), env.RelocationRoot)
	AssertRealDir(t, env.FS, env.ProfileRoot)

	env.WithFileTree(env.Path("Music"), FileTree{
		"a.mp3": "abc",
		"album": FileTree{"b.mp3": int64(10)},
	})
	AssertFileContent(t, env.FS, env.Path("Music", "a.mp3"), "abc")

	info, err := env.FS.Stat(env.Path("Music", "album", "b.mp3"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size())
}

func TestProfileEnvironment_Isolated(t *testing.T) {
	env := NewProfileEnvironment(t, EnvIsolated)

	assert.Equal(t, env.StateDir, os.Getenv(paths.EnvSlimStateDir))

	big := env.Path("Videos", "movie.mkv")
	env.WriteFileOfSize(big, 600*1024*1024)

	info, err := os.Stat(big)
	require.NoError(t, err)
	assert.Equal(t, int64(600*1024*1024), info.Size())

	env.MkdirAll(env.RelocatedPath("Videos"))
	env.Symlink(env.RelocatedPath("Videos"), env.Path("Linked"))
	AssertSymlinkTo(t, env.FS, env.Path("Linked"), env.RelocatedPath("Videos"))

	AssertNotExists(t, env.FS, env.Path("Missing"))
}

func TestFaultyFS(t *testing.T) {
	env := NewProfileEnvironment(t, EnvMemoryOnly)
	env.WriteFile(env.Path("Music", "a.mp3"), "abc")

	boom := errors.New("boom")
	faulty := NewFaultyFS(env.FS).WithError(OpLstat, env.Path("Music", "a.mp3"), boom)

	_, err := faulty.Lstat(env.Path("Music", "a.mp3"))
	assert.ErrorIs(t, err, boom)

	_, err = faulty.Lstat(env.Path("Music"))
	assert.NoError(t, err, "other paths are unaffected")

	assert.Equal(t, 2, faulty.Calls(OpLstat))
}
