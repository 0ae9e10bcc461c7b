//go:build !windows

// pkg/filesystem/move_unix_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), testutil.FaultyFS
// PURPOSE: Test cross-device fallback and privilege detection with injected errnos

package filesystem_test

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/filesystem"
	"github.com/arthur-debert/slim/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_CrossDeviceFallback(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Videos")
	dst := filepath.Join(root, "other-volume", "Videos")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "clip.mp4"), []byte("frames"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))

	fsys := testutil.NewFaultyFS(filesystem.NewOS()).
		WithError(testutil.OpRename, src, &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EXDEV})

	require.NoError(t, filesystem.Move(fsys, src, dst))

	assert.Equal(t, 1, fsys.Calls(testutil.OpCopyTree))
	testutil.AssertNotExists(t, fsys, src)
	testutil.AssertFileContent(t, fsys, filepath.Join(dst, "sub", "clip.mp4"), "frames")
}

func TestMove_CrossDeviceCopyFailureCleansUp(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Videos")
	dst := filepath.Join(root, "other-volume", "Videos")
	require.NoError(t, os.MkdirAll(src, 0755))

	fsys := testutil.NewFaultyFS(filesystem.NewOS()).
		WithError(testutil.OpRename, src, &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EXDEV}).
		WithError(testutil.OpCopyTree, src, syscall.ENOSPC)

	err := filesystem.Move(fsys, src, dst)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMove))
	testutil.AssertRealDir(t, fsys, src)
	testutil.AssertNotExists(t, fsys, dst)
}

func TestProbeSymlink_PrivilegeDenied(t *testing.T) {
	dir := t.TempDir()
	probe := filesystem.ProbePath(dir)
	fsys := testutil.NewFaultyFS(filesystem.NewOS()).
		WithError(testutil.OpSymlink, probe, &os.LinkError{Op: "symlink", Old: dir, New: probe, Err: syscall.EPERM})

	err := filesystem.ProbeSymlink(fsys, dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrivilege))
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, filesystem.IsCrossDevice(&os.LinkError{Op: "rename", Err: syscall.EXDEV}))
	assert.False(t, filesystem.IsCrossDevice(&os.LinkError{Op: "rename", Err: syscall.ENOENT}))
	assert.False(t, filesystem.IsPrivilegeError(syscall.ENOENT))
}

func TestMove_CrossDeviceSourceRemovalFailureIsPartial(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Videos")
	dst := filepath.Join(root, "other-volume", "Videos")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "clip.mp4"), []byte("frames"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))

	fsys := testutil.NewFaultyFS(filesystem.NewOS()).
		WithError(testutil.OpRename, src, &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EXDEV}).
		WithError(testutil.OpRemoveAll, src, syscall.EBUSY)

	err := filesystem.Move(fsys, src, dst)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMovePartial))
	assert.False(t, errors.IsErrorCode(err, errors.ErrMove))
	testutil.AssertFileContent(t, fsys, filepath.Join(dst, "clip.mp4"), "frames")
}
