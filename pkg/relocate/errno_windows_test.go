//go:build windows

package relocate

import "golang.org/x/sys/windows"

var (
	privilegeErrno   error = windows.ERROR_PRIVILEGE_NOT_HELD
	crossDeviceErrno error = windows.ERROR_NOT_SAME_DEVICE
)
