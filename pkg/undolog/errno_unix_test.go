//go:build !windows

package undolog

import "syscall"

var crossDeviceErrno error = syscall.EXDEV
