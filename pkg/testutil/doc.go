// Package testutil provides utilities for testing slim components.
//
// Key components:
//   - ProfileEnvironment: a profile root plus relocation base, either on
//     a real temp directory or on an afero in-memory filesystem
//   - FaultyFS: wraps a types.FS and fails chosen operations on chosen
//     paths, for error paths that chmod cannot produce when running as root
//   - Assertions for symlinks, real directories and file content
//
// Usage guidelines:
//   - Anything that creates or follows symlinks needs EnvIsolated, since
//     the in-memory filesystem has no links
//   - EnvMemoryOnly suits sizing and log tests
//   - All test data should be defined inline, not in external files
package testutil
