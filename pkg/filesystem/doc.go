// Package filesystem provides the types.FS implementations used by slim.
//
// NewOS talks to the real filesystem and is what the CLI uses. NewAferoFS
// adapts any afero.Fs, which lets tests run the size and log code against
// an in-memory tree. Move and ProbeSymlink build on top of types.FS and
// hold the cross-device and privilege handling shared by relocate, undo
// and flatten.
package filesystem
