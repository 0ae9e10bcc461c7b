// Package relocate moves profile folders to the relocation root and
// leaves a directory symlink at each original location.
package relocate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/filesystem"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/scan"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/arthur-debert/slim/pkg/undolog"
	"github.com/rs/zerolog"
)

// Recorder persists each completed relocation. *undolog.Log implements it.
type Recorder interface {
	Append(rec types.RelocationRecord) error
}

// Options configures a relocation batch
type Options struct {
	FS             types.FS
	ProfileRoot    string
	RelocationRoot string
	// Entries are processed in order. Callers pass the selected subset of
	// a scan.
	Entries []types.FolderEntry
	Log     Recorder
	// ConfirmMerge is asked when a target already exists. Nil declines
	// every merge.
	ConfirmMerge types.MergeDecider
	// RecomputeSize re-measures each source right before it is moved
	RecomputeSize bool
	Progress      types.ProgressFunc
}

// Relocate runs the batch. Per-entry problems are collected in the result
// and never stop the batch. An error is returned when the batch cannot
// start (relocation root or symlink privilege) or is cancelled; in the
// cancelled case the partial result is returned too.
func Relocate(ctx context.Context, opts Options) (*types.RelocationResult, error) {
	logger := logging.GetLogger("relocate")
	defer logging.LogOperationStart(logger, "relocate")()

	if opts.Log == nil {
		return nil, errors.New(errors.ErrInvalidInput, "relocation requires an undo log")
	}

	if err := opts.FS.MkdirAll(opts.RelocationRoot, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create relocation root %s", opts.RelocationRoot).
			WithDetail("path", opts.RelocationRoot)
	}
	if err := filesystem.ProbeSymlink(opts.FS, opts.RelocationRoot); err != nil {
		return nil, err
	}

	logger.Info().
		Str("profile", opts.ProfileRoot).
		Str("relocationRoot", opts.RelocationRoot).
		Int("entries", len(opts.Entries)).
		Msg("Relocating folders")

	result := &types.RelocationResult{}
	total := float64(len(opts.Entries))
	for i, entry := range opts.Entries {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(err, errors.ErrCancelled, "relocation cancelled")
		}
		relocateOne(logger, opts, entry, result)
		opts.Progress.Report(float64(i+1) / total)
	}
	if len(opts.Entries) == 0 {
		opts.Progress.Report(1)
	}

	logger.Info().
		Int("moved", result.Moved).
		Int64("bytesSaved", result.BytesSaved).
		Int("skipped", len(result.Skipped)).
		Int("failures", len(result.Failures)).
		Msg("Relocation complete")
	return result, nil
}

func relocateOne(logger zerolog.Logger, opts Options, entry types.FolderEntry, result *types.RelocationResult) {
	src, dst := filepath.Clean(entry.SourcePath), filepath.Clean(entry.TargetPath)
	fail := func(kind types.FailureKind, err error) {
		event := logger.Warn()
		if kind == types.DanglingSourceFailure {
			event = logger.Error()
		}
		event.Err(err).Str("source", src).Str("kind", string(kind)).Msg("Entry not relocated")
		result.Failures = append(result.Failures, types.Failure{Kind: kind, Path: src, Err: err})
	}
	skip := func(reason string) {
		logger.Info().Str("source", src).Str("reason", reason).Msg("Skipping")
		result.Skipped = append(result.Skipped, types.SkippedEntry{Path: src, Reason: reason})
	}

	if !paths.IsWithin(opts.ProfileRoot, src) || src == filepath.Clean(opts.ProfileRoot) {
		fail(types.MoveFailure, errors.Newf(errors.ErrInvalidInput, "%s is not inside the profile", src))
		return
	}
	if !paths.IsWithin(opts.RelocationRoot, dst) || dst == filepath.Clean(opts.RelocationRoot) {
		fail(types.MoveFailure, errors.Newf(errors.ErrInvalidInput, "%s is not inside the relocation root", dst))
		return
	}

	if err := undolog.Validate(types.RelocationRecord{OriginalPath: src, RelocatedPath: dst}); err != nil {
		fail(types.MoveFailure, err)
		return
	}

	info, err := opts.FS.Lstat(src)
	switch {
	case os.IsNotExist(err):
		skip("source no longer exists")
		return
	case err != nil:
		fail(types.MoveFailure, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", src))
		return
	case info.Mode()&fs.ModeSymlink != 0:
		skip("already relocated")
		return
	case !info.IsDir():
		fail(types.MoveFailure, errors.Newf(errors.ErrInvalidInput, "%s is not a directory", src))
		return
	}

	size := entry.SizeBytes
	if opts.RecomputeSize {
		if fresh, _, err := scan.DirSize(opts.FS, src); err == nil {
			size = fresh
		} else {
			logger.Debug().Err(err).Str("source", src).Msg("Using scan-time size")
		}
	}

	exists, err := filesystem.Exists(opts.FS, dst)
	if err != nil {
		fail(types.MoveFailure, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", dst))
		return
	}

	merged := false
	if exists {
		if opts.ConfirmMerge == nil {
			fail(types.ConflictDeclined, errors.Newf(errors.ErrAlreadyExists, "%s already exists", dst))
			return
		}
		ok, err := opts.ConfirmMerge(entry)
		if err != nil {
			fail(types.ConflictDeclined, errors.Wrap(err, errors.ErrAlreadyExists, "merge prompt failed"))
			return
		}
		if !ok {
			fail(types.ConflictDeclined, errors.Newf(errors.ErrAlreadyExists, "merge into %s declined", dst))
			return
		}
		if err := opts.FS.CopyTree(src, dst); err != nil {
			fail(types.MoveFailure, errors.Wrapf(err, errors.ErrMove, "cannot merge %s into %s", src, dst))
			return
		}
		if err := opts.FS.RemoveAll(src); err != nil {
			fail(types.DanglingSourceFailure, errors.Wrapf(err, errors.ErrMovePartial, "merged %s into %s but cannot remove it", src, dst).
				WithDetail("target", dst))
			return
		}
		merged = true
	} else {
		if err := opts.FS.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			fail(types.MoveFailure, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dst)))
			return
		}
		if err := filesystem.Move(opts.FS, src, dst); err != nil {
			// the copy is complete but the source is partly gone, so
			// neither location can be trusted to be linked
			if errors.IsErrorCode(err, errors.ErrMovePartial) {
				fail(types.DanglingSourceFailure, err)
				return
			}
			fail(types.MoveFailure, err)
			return
		}
	}

	if err := opts.FS.Symlink(dst, src); err != nil {
		linkErr := errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s to %s", src, dst)
		if merged {
			fail(types.DanglingSourceFailure, linkErr)
			return
		}
		logger.Warn().Err(err).Str("source", src).Msg("Link failed, moving folder back")
		if rbErr := filesystem.Move(opts.FS, dst, src); rbErr != nil {
			logger.Error().Err(rbErr).Str("source", src).Msg("Failed to roll back move")
			fail(types.DanglingSourceFailure, linkErr.WithDetail("rollback", rbErr.Error()))
			return
		}
		fail(types.MoveFailure, linkErr)
		return
	}

	rec := types.RelocationRecord{OriginalPath: src, RelocatedPath: dst}
	result.Moved++
	result.BytesSaved += size
	result.Records = append(result.Records, rec)

	if err := opts.Log.Append(rec); err != nil {
		result.Unlogged = append(result.Unlogged, rec)
		fail(types.MoveFailure, errors.Wrapf(err, errors.ErrLogWrite, "relocated %s but could not record it", src))
		return
	}

	logger.Info().
		Str("source", src).
		Str("target", dst).
		Int64("bytes", size).
		Bool("merged", merged).
		Msg("Relocated")
}
