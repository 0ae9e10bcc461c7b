package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/slim/pkg/types"
)

// Operation names accepted by FaultyFS.WithError
const (
	OpLstat     = "lstat"
	OpStat      = "stat"
	OpReadDir   = "readdir"
	OpMkdirAll  = "mkdirall"
	OpSymlink   = "symlink"
	OpRename    = "rename"
	OpRemove    = "remove"
	OpRemoveAll = "removeall"
	OpOpenFile  = "openfile"
	OpCopyTree  = "copytree"
)

// FaultyFS delegates to another types.FS and returns injected errors for
// configured (operation, path) pairs.
type FaultyFS struct {
	types.FS

	mu     sync.RWMutex
	errors map[string]map[string]error
	calls  map[string]int
}

// NewFaultyFS wraps inner
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{
		FS:     inner,
		errors: make(map[string]map[string]error),
		calls:  make(map[string]int),
	}
}

// WithError makes op on path fail with err
func (f *FaultyFS) WithError(op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errors[op] == nil {
		f.errors[op] = make(map[string]error)
	}
	f.errors[op][filepath.Clean(path)] = err
	return f
}

// Calls returns how many times op was invoked
func (f *FaultyFS) Calls(op string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

func (f *FaultyFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++
	return f.errors[op][filepath.Clean(path)]
}

func (f *FaultyFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

// Rename is matched on the source path
func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultyFS) OpenFile(name string, flag int, perm fs.FileMode) (types.File, error) {
	if err := f.check(OpOpenFile, name); err != nil {
		return nil, err
	}
	return f.FS.OpenFile(name, flag, perm)
}

// CopyTree is matched on the source path
func (f *FaultyFS) CopyTree(src, dst string) error {
	if err := f.check(OpCopyTree, src); err != nil {
		return err
	}
	return f.FS.CopyTree(src, dst)
}
