//go:build windows

package filesystem

import (
	"errors"

	"golang.org/x/sys/windows"
)

// IsCrossDevice reports whether err came from renaming across volumes.
func IsCrossDevice(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}

// IsPrivilegeError reports whether err means the process lacks
// SeCreateSymbolicLinkPrivilege (no admin rights and no Developer Mode).
func IsPrivilegeError(err error) bool {
	return errors.Is(err, windows.ERROR_PRIVILEGE_NOT_HELD)
}
