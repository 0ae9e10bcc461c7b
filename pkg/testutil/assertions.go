package testutil

import (
	"io/fs"
	"os"
	"testing"

	"github.com/arthur-debert/slim/pkg/types"
)

// AssertSymlinkTo checks that link is a symlink whose target is target
func AssertSymlinkTo(t *testing.T, fsys types.FS, link, target string) {
	t.Helper()

	info, err := fsys.Lstat(link)
	if err != nil {
		t.Errorf("Expected symlink at %s: %v", link, err)
		return
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("Expected %s to be a symlink, mode is %v", link, info.Mode())
		return
	}
	got, err := fsys.Readlink(link)
	if err != nil {
		t.Errorf("Failed to read link %s: %v", link, err)
		return
	}
	if got != target {
		t.Errorf("Symlink %s points to %s, expected %s", link, got, target)
	}
}

// AssertRealDir checks that path is a directory and not a symlink
func AssertRealDir(t *testing.T, fsys types.FS, path string) {
	t.Helper()

	info, err := fsys.Lstat(path)
	if err != nil {
		t.Errorf("Expected directory at %s: %v", path, err)
		return
	}
	if info.Mode()&fs.ModeSymlink != 0 || !info.IsDir() {
		t.Errorf("Expected %s to be a real directory, mode is %v", path, info.Mode())
	}
}

// AssertNotExists checks that nothing, not even a dangling link, is at path
func AssertNotExists(t *testing.T, fsys types.FS, path string) {
	t.Helper()

	_, err := fsys.Lstat(path)
	if err == nil {
		t.Errorf("Expected %s to not exist", path)
		return
	}
	if !os.IsNotExist(err) {
		t.Errorf("Unexpected error checking %s: %v", path, err)
	}
}

// AssertFileContent checks the content of a file
func AssertFileContent(t *testing.T, fsys types.FS, path, expected string) {
	t.Helper()

	content, err := fsys.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if string(content) != expected {
		t.Errorf("Content of %s is %q, expected %q", path, content, expected)
	}
}
