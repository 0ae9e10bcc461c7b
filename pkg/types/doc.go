// Package types defines the core types and interfaces used throughout slim.
// This includes the FS abstraction the engine works against, the scan and
// relocation records (FolderEntry, RelocationRecord), the per-entry Failure
// taxonomy and the result structures returned by each engine operation.
package types
