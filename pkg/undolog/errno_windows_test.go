//go:build windows

package undolog

import "golang.org/x/sys/windows"

var crossDeviceErrno error = windows.ERROR_NOT_SAME_DEVICE
