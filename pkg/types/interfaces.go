package types

import (
	"io"
	"io/fs"
)

// FS defines the filesystem operations the relocation engine needs.
// Implementations live in pkg/filesystem.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error

	// CopyTree copies src into dst recursively, merging into dst when it
	// already exists. Symlinks inside src are copied as links.
	CopyTree(src, dst string) error
}

// File is the subset of *os.File used for durable appends.
type File interface {
	io.ReadWriteCloser
	Name() string
	Sync() error
}
