package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"
	ErrCancelled     ErrorCode = "CANCELLED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Precondition errors
	ErrPrivilege     ErrorCode = "PRIVILEGE"
	ErrNothingToUndo ErrorCode = "NOTHING_TO_UNDO"
	ErrProfileBusy   ErrorCode = "PROFILE_BUSY"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrMove          ErrorCode = "MOVE"
	ErrMovePartial   ErrorCode = "MOVE_PARTIAL"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrNotSymlink    ErrorCode = "NOT_SYMLINK"

	// Undo log errors
	ErrLogRead  ErrorCode = "LOG_READ"
	ErrLogWrite ErrorCode = "LOG_WRITE"
)

// SlimError represents a structured error with code and details
type SlimError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SlimError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SlimError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SlimError) Is(target error) bool {
	var targetErr *SlimError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SlimError with the given code and message
func New(code ErrorCode, message string) *SlimError {
	return &SlimError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SlimError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SlimError {
	return &SlimError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SlimError
func Wrap(err error, code ErrorCode, message string) *SlimError {
	if err == nil {
		return nil
	}
	return &SlimError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SlimError {
	if err == nil {
		return nil
	}
	return &SlimError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SlimError) WithDetail(key string, value interface{}) *SlimError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var slimErr *SlimError
	if errors.As(err, &slimErr) {
		return slimErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SlimError
func GetErrorCode(err error) ErrorCode {
	var slimErr *SlimError
	if errors.As(err, &slimErr) {
		return slimErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SlimError
func GetErrorDetails(err error) map[string]interface{} {
	var slimErr *SlimError
	if errors.As(err, &slimErr) {
		return slimErr.Details
	}
	return nil
}
