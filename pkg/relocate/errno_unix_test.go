//go:build !windows

package relocate

import "syscall"

var (
	privilegeErrno   error = syscall.EPERM
	crossDeviceErrno error = syscall.EXDEV
)
