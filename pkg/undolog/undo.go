package undolog

import (
	"context"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/filesystem"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/types"
)

// RestoreOptions configures an undo pass
type RestoreOptions struct {
	FS       types.FS
	Log      *Log
	Progress types.ProgressFunc
}

// Restore moves every logged folder back, newest first. A record whose
// original path is no longer a symlink is skipped and reported. When the
// pass completes the log is deleted; records that failed are written to
// the residual file first; if that write fails the log is rewritten to hold
// just the failed records and an ErrLogWrite error is returned with the
// result. A cancelled pass leaves the unprocessed records in the log.
func Restore(ctx context.Context, opts RestoreOptions) (*types.UndoResult, error) {
	logger := logging.GetLogger("undo")
	defer logging.LogOperationStart(logger, "undo")()

	if !opts.Log.Exists() {
		return nil, errors.Newf(errors.ErrNothingToUndo, "nothing to undo: no log at %s", opts.Log.Path()).
			WithDetail("log", opts.Log.Path())
	}
	records, err := opts.Log.Records()
	if err != nil {
		return nil, err
	}

	result := &types.UndoResult{}
	var failed []types.RelocationRecord
	total := float64(len(records))

	for i := len(records) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			keep := records[:i+1:i+1]
			if werr := writeResidual(opts, failed, result); werr != nil {
				logger.Error().Err(werr).Msg("Failed to write residual undo log, keeping failed records in the log")
				keep = append(keep, logOrder(failed)...)
			}
			if rerr := opts.Log.Replace(keep); rerr != nil {
				logger.Error().Err(rerr).Msg("Failed to keep unprocessed undo records")
			}
			return result, errors.Wrap(err, errors.ErrCancelled, "undo cancelled")
		}

		rec := records[i]
		if f := restoreOne(opts.FS, rec); f != nil {
			logger.Warn().Err(f.Err).Str("path", rec.OriginalPath).Msg("Could not restore")
			result.Failures = append(result.Failures, *f)
			failed = append(failed, rec)
		} else {
			logger.Info().Str("from", rec.RelocatedPath).Str("to", rec.OriginalPath).Msg("Restored")
			result.Restored++
		}
		opts.Progress.Report(float64(len(records)-i) / total)
	}
	if len(records) == 0 {
		opts.Progress.Report(1)
	}

	// Residual first, so failed records are never only in a deleted file.
	if err := writeResidual(opts, failed, result); err != nil {
		if rerr := opts.Log.Replace(logOrder(failed)); rerr != nil {
			logger.Error().Err(rerr).Msg("Failed to keep failed undo records")
		}
		return result, errors.Wrapf(err, errors.ErrLogWrite, "cannot save %d failed records; they remain in %s",
			len(failed), opts.Log.Path())
	}
	if err := opts.Log.Remove(); err != nil {
		return result, err
	}

	logger.Info().
		Int("restored", result.Restored).
		Int("failed", len(result.Failures)).
		Msg("Undo complete")
	return result, nil
}

func restoreOne(fsys types.FS, rec types.RelocationRecord) *types.Failure {
	fail := func(err error) *types.Failure {
		return &types.Failure{Kind: types.UndoRecordFailure, Path: rec.OriginalPath, Err: err}
	}

	isLink, err := filesystem.IsSymlink(fsys, rec.OriginalPath)
	if err != nil {
		return fail(errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", rec.OriginalPath))
	}
	if !isLink {
		return fail(errors.Newf(errors.ErrNotSymlink, "%s is not a symbolic link", rec.OriginalPath))
	}
	if _, err := fsys.Lstat(rec.RelocatedPath); err != nil {
		return fail(errors.Wrapf(err, errors.ErrNotFound, "relocated folder %s is missing", rec.RelocatedPath))
	}

	target, _ := fsys.Readlink(rec.OriginalPath)
	if err := fsys.Remove(rec.OriginalPath); err != nil {
		return fail(errors.Wrapf(err, errors.ErrFileAccess, "cannot remove link %s", rec.OriginalPath))
	}
	if err := filesystem.Move(fsys, rec.RelocatedPath, rec.OriginalPath); err != nil {
		// content is back in place, only the relocated copy lingers
		if errors.IsErrorCode(err, errors.ErrMovePartial) {
			return fail(err)
		}
		if target == "" {
			target = rec.RelocatedPath
		}
		if lerr := fsys.Symlink(target, rec.OriginalPath); lerr != nil {
			return &types.Failure{Kind: types.DanglingSourceFailure, Path: rec.OriginalPath, Err: err}
		}
		return fail(err)
	}
	return nil
}

// logOrder reverses failed, which is collected newest first.
func logOrder(failed []types.RelocationRecord) []types.RelocationRecord {
	ordered := make([]types.RelocationRecord, len(failed))
	for i, rec := range failed {
		ordered[len(failed)-1-i] = rec
	}
	return ordered
}

func writeResidual(opts RestoreOptions, failed []types.RelocationRecord, result *types.UndoResult) error {
	if len(failed) == 0 {
		return nil
	}

	residual := New(opts.FS, paths.ResidualLogPath(opts.Log.Path()))
	for _, rec := range logOrder(failed) {
		if err := residual.Append(rec); err != nil {
			return err
		}
	}
	result.ResidualPath = residual.Path()
	return nil
}
