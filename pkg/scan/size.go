package scan

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/types"
)

// DirSize sums the sizes of regular files under root. Symlinks are not
// followed. Entries that cannot be read are reported as TraversalWarning
// failures and left out of the total, so the figure may undercount. An
// error is returned only when root itself cannot be read.
func DirSize(fsys types.FS, root string) (int64, []types.Failure, error) {
	info, err := fsys.Lstat(root)
	if err != nil {
		return 0, nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", root)
	}
	if !info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
		return 0, nil, errors.Newf(errors.ErrInvalidInput, "%s is not a directory", root)
	}

	var (
		total    int64
		warnings []types.Failure
		pending  = []string{root}
	)
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := fsys.ReadDir(dir)
		if err != nil {
			if dir == root {
				return 0, nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", root)
			}
			warnings = append(warnings, types.Failure{Kind: types.TraversalWarning, Path: dir, Err: err})
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			info, err := fsys.Lstat(path)
			if err != nil {
				warnings = append(warnings, types.Failure{Kind: types.TraversalWarning, Path: path, Err: err})
				continue
			}
			switch mode := info.Mode(); {
			case mode&fs.ModeSymlink != 0:
			case mode.IsDir():
				pending = append(pending, path)
			case mode.IsRegular():
				total += info.Size()
			}
		}
	}
	return total, warnings, nil
}
