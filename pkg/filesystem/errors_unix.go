//go:build !windows

package filesystem

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsCrossDevice reports whether err came from renaming across filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// IsPrivilegeError reports whether err means the process may not create
// symlinks at all, as opposed to a plain permission problem on one path.
func IsPrivilegeError(err error) bool {
	return errors.Is(err, unix.EPERM)
}
