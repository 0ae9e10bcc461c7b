// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test relocation root derivation and slim's own path helpers

package paths_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelocationRoot(t *testing.T) {
	profile := filepath.Join(string(filepath.Separator), "home", "alice")

	tests := []struct {
		name   string
		base   string
		prefix string
		want   string
	}{
		{
			name:   "explicit base with prefix",
			base:   filepath.Join(string(filepath.Separator), "srv"),
			prefix: "User_",
			want:   filepath.Join(string(filepath.Separator), "srv", "User_alice"),
		},
		{
			name:   "explicit base without prefix",
			base:   filepath.Join(string(filepath.Separator), "mnt", "big"),
			prefix: "",
			want:   filepath.Join(string(filepath.Separator), "mnt", "big", "alice"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.RelocationRoot(profile, tt.base, tt.prefix))
		})
	}
}

func TestRelocationRoot_DefaultBase(t *testing.T) {
	if runtime.GOOS == "windows" {
		got := paths.RelocationRoot(`C:\Users\alice`, "", "User_")
		assert.Equal(t, `C:\User_alice`, got)
		return
	}

	got := paths.RelocationRoot("/home/alice", "", "User_")
	assert.Equal(t, "/home/User_alice", got)
}

func TestProfileName(t *testing.T) {
	assert.Equal(t, "alice", paths.ProfileName(filepath.Join("home", "alice")+string(filepath.Separator)))
}

func TestUndoLogPaths(t *testing.T) {
	profile := t.TempDir()

	logPath := paths.UndoLogPath(profile, "symlinks.txt")
	assert.Equal(t, filepath.Join(profile, "symlinks.txt"), logPath)
	assert.Equal(t, logPath+".failed", paths.ResidualLogPath(logPath))
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "home", "alice")

	assert.True(t, paths.IsWithin(root, root))
	assert.True(t, paths.IsWithin(root, filepath.Join(root, "Downloads", "x")))
	assert.False(t, paths.IsWithin(root, filepath.Join(string(filepath.Separator), "home", "bob")))
	assert.False(t, paths.IsWithin(root, filepath.Join(string(filepath.Separator), "home", "alice2")))
	assert.True(t, paths.IsWithin(root, filepath.Join(root, "..alice")), "names starting with dots stay inside")
}

func TestNormalizePath(t *testing.T) {
	_, err := paths.NormalizePath("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := paths.NormalizePath("~/Videos/../Music")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Music"), got)
}

func TestStateDir_Overrides(t *testing.T) {
	custom := t.TempDir()

	t.Setenv(paths.EnvSlimStateDir, custom)
	assert.Equal(t, custom, paths.StateDir())
	assert.Equal(t, filepath.Join(custom, "slim.log"), paths.LogFilePath())

	t.Setenv(paths.EnvSlimStateDir, "")
	t.Setenv("XDG_STATE_HOME", custom)
	assert.Equal(t, filepath.Join(custom, "slim"), paths.StateDir())
}

func TestLockFilePath_StablePerProfile(t *testing.T) {
	t.Setenv(paths.EnvSlimStateDir, t.TempDir())

	a := paths.LockFilePath("/home/alice")
	b := paths.LockFilePath("/home/alice/")
	c := paths.LockFilePath("/home/bob")

	assert.Equal(t, a, b, "trailing separators do not change the lock")
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(filepath.Base(a), "alice-"))
	assert.Equal(t, ".lock", filepath.Ext(a))
}
