package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/types"
)

// Move renames src to dst. When the two live on different volumes the tree
// is copied and the source removed afterwards. A failed copy removes the
// partial destination and leaves src untouched. When the copy succeeds but
// src cannot be removed the error carries ErrMovePartial: dst is complete
// and src may be partly deleted.
func Move(fsys types.FS, src, dst string) error {
	logger := logging.GetLogger("filesystem.move")

	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !IsCrossDevice(err) {
		return errors.Wrapf(err, errors.ErrMove, "move %s to %s", src, dst)
	}

	logger.Debug().Str("from", src).Str("to", dst).Msg("Cross-device move, copying")
	if err := fsys.CopyTree(src, dst); err != nil {
		_ = fsys.RemoveAll(dst)
		return errors.Wrapf(err, errors.ErrMove, "copy %s to %s", src, dst)
	}
	if err := fsys.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrMovePartial, "copied %s to %s but cannot remove the source", src, dst).
			WithDetail("source", src).
			WithDetail("target", dst)
	}
	return nil
}

// Exists reports whether path is present, without following a final link.
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsSymlink reports whether path is itself a symbolic link.
func IsSymlink(fsys types.FS, path string) (bool, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&fs.ModeSymlink != 0, nil
}

// ProbeSymlink checks that links can be created inside dir. It is run once
// before a batch so a missing privilege fails early instead of leaving the
// first entry moved with nothing pointing at it.
func ProbeSymlink(fsys types.FS, dir string) error {
	probe := ProbePath(dir)
	_ = fsys.Remove(probe)

	if err := fsys.Symlink(dir, probe); err != nil {
		if IsPrivilegeError(err) {
			return errors.Wrap(err, errors.ErrPrivilege,
				"cannot create symbolic links; run as administrator or enable Developer Mode")
		}
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create symbolic links in %s", dir)
	}
	return fsys.Remove(probe)
}

// ProbePath is the temporary link ProbeSymlink creates inside dir
func ProbePath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf(".slim-probe-%d", os.Getpid()))
}
