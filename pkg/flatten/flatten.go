// Package flatten empties a Downloads-like folder into the relocation
// root. Unlike relocation nothing is left behind: no link, no log entry.
package flatten

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/filesystem"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/scan"
	"github.com/arthur-debert/slim/pkg/types"
)

// maxSuffix bounds the search for a free "name (n).ext"
const maxSuffix = 10000

// Options configures a flatten run
type Options struct {
	FS          types.FS
	Source      string
	Destination string
	Progress    types.ProgressFunc
}

// Flatten moves every immediate child of Source into Destination. A name
// that is already taken gets a " (n)" suffix before its extension.
func Flatten(ctx context.Context, opts Options) (*types.FlattenResult, error) {
	logger := logging.GetLogger("flatten")
	defer logging.LogOperationStart(logger, "flatten")()

	info, err := opts.FS.Lstat(opts.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "%s not found", opts.Source).WithDetail("path", opts.Source)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", opts.Source)
	}
	if !info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a directory", opts.Source)
	}
	if paths.IsWithin(opts.Source, opts.Destination) {
		return nil, errors.Newf(errors.ErrInvalidInput, "destination %s is inside %s", opts.Destination, opts.Source)
	}

	if err := opts.FS.MkdirAll(opts.Destination, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", opts.Destination)
	}

	entries, err := opts.FS.ReadDir(opts.Source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", opts.Source)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	logger.Info().
		Str("source", opts.Source).
		Str("destination", opts.Destination).
		Int("items", len(entries)).
		Msg("Flattening")

	result := &types.FlattenResult{Items: []types.FlattenedItem{}}
	total := float64(len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, errors.ErrCancelled, "flatten cancelled")
		}

		from := filepath.Join(opts.Source, entry.Name())
		item, err := flattenOne(opts.FS, from, opts.Destination, entry.Name())
		if err != nil {
			logger.Warn().Err(err).Str("path", from).Msg("Could not move")
			result.Failures = append(result.Failures, types.Failure{Kind: types.MoveFailure, Path: from, Err: err})
		} else {
			logger.Debug().Str("from", item.From).Str("to", item.To).Msg("Moved")
			result.Items = append(result.Items, *item)
			result.Moved++
			result.BytesMoved += item.Bytes
		}
		opts.Progress.Report(float64(i+1) / total)
	}
	if len(entries) == 0 {
		opts.Progress.Report(1)
	}

	logger.Info().
		Int("moved", result.Moved).
		Int64("bytes", result.BytesMoved).
		Int("failures", len(result.Failures)).
		Msg("Flatten complete")
	return result, nil
}

func flattenOne(fsys types.FS, from, destDir, name string) (*types.FlattenedItem, error) {
	info, err := fsys.Lstat(from)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", from)
	}

	item := &types.FlattenedItem{From: from}
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
	case info.IsDir():
		item.IsDir = true
		size, _, err := scan.DirSize(fsys, from)
		if err != nil {
			return nil, err
		}
		item.Bytes = size
	default:
		item.Bytes = info.Size()
	}

	to, err := FreeName(fsys, destDir, name)
	if err != nil {
		return nil, err
	}
	if err := filesystem.Move(fsys, from, to); err != nil {
		return nil, err
	}
	item.To = to
	return item, nil
}

// FreeName returns dir/name, or dir/"base (n).ext" with the smallest n
// that is not taken.
func FreeName(fsys types.FS, dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	exists, err := filesystem.Exists(fsys, candidate)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", candidate)
	}
	if !exists {
		return candidate, nil
	}

	base, ext := splitExt(name)
	for n := 1; n <= maxSuffix; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, ext))
		exists, err := filesystem.Exists(fsys, candidate)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", candidate)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.Newf(errors.ErrAlreadyExists, "no free name for %s in %s", name, dir)
}

// splitExt keeps dotfiles whole: ".bashrc" has no extension
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name || strings.TrimSuffix(name, ext) == "" {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}
