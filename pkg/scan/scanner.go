package scan

import (
	"context"
	"io/fs"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/panjf2000/ants/v2"
)

// Options configures a profile scan
type Options struct {
	FS             types.FS
	ProfileRoot    string
	RelocationRoot string
	// Threshold in bytes; entries at or above it are marked ShouldMove
	Threshold     int64
	Excluded      []string
	DocumentsName string
	// Workers bounds concurrent sizing. Zero means min(NumCPU, 4).
	Workers  int
	Progress types.ProgressFunc
}

type sized struct {
	size     int64
	warnings []types.Failure
	err      error
}

// Scan enumerates the profile, sizes every candidate and returns entries
// ranked by size, largest first. Equal sizes keep enumeration order.
func Scan(ctx context.Context, opts Options) (*types.ScanResult, error) {
	logger := logging.GetLogger("scan")
	defer logging.LogOperationStart(logger, "scan")()
	start := time.Now()

	info, err := opts.FS.Lstat(opts.ProfileRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "profile %s", opts.ProfileRoot).
			WithDetail("profile", opts.ProfileRoot)
	}
	if !info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "profile %s is not a directory", opts.ProfileRoot)
	}

	rules := Rules{Excluded: make(map[string]bool, len(opts.Excluded)), DocumentsName: opts.DocumentsName}
	for _, name := range opts.Excluded {
		rules.Excluded[name] = true
	}

	enum := NewEnumerator(opts.FS, opts.ProfileRoot, opts.RelocationRoot, rules)
	var candidates []types.Candidate
	for enum.Next() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCancelled, "scan cancelled")
		}
		candidates = append(candidates, enum.Candidate())
	}
	if err := enum.Err(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("profile", opts.ProfileRoot).
		Int("candidates", len(candidates)).
		Msg("Sizing candidates")

	results, err := sizeAll(ctx, opts, candidates)
	if err != nil {
		return nil, err
	}

	res := &types.ScanResult{
		ProfileRoot:    opts.ProfileRoot,
		RelocationRoot: opts.RelocationRoot,
		Threshold:      opts.Threshold,
		Entries:        make([]types.FolderEntry, 0, len(candidates)),
		Warnings:       append([]types.Failure(nil), enum.Warnings()...),
	}
	for i, c := range candidates {
		r := results[i]
		res.Warnings = append(res.Warnings, r.warnings...)
		if r.err != nil {
			logger.Warn().Err(r.err).Str("path", c.SourcePath).Msg("Dropping candidate that could not be sized")
			res.Warnings = append(res.Warnings, types.Failure{Kind: types.ScanCandidateFailure, Path: c.SourcePath, Err: r.err})
			continue
		}
		res.Entries = append(res.Entries, types.NewFolderEntry(c, r.size, opts.Threshold))
		res.TotalBytes += r.size
	}

	// Entries are in enumeration order here, so a stable sort keeps it
	// for ties.
	sort.SliceStable(res.Entries, func(i, j int) bool {
		return res.Entries[i].SizeBytes > res.Entries[j].SizeBytes
	})
	res.Duration = time.Since(start)

	logger.Info().
		Int("entries", len(res.Entries)).
		Int("warnings", len(res.Warnings)).
		Int64("totalBytes", res.TotalBytes).
		Msg("Scan complete")

	return res, nil
}

func sizeAll(ctx context.Context, opts Options, candidates []types.Candidate) ([]sized, error) {
	if len(candidates) == 0 {
		opts.Progress.Report(1)
		return nil, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 4)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create worker pool")
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		results   = make([]sized, len(candidates))
		total     = float64(len(candidates))
	)

	for i, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		i, c := i, c
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			size, warnings, err := DirSize(opts.FS, c.SourcePath)

			mu.Lock()
			defer mu.Unlock()
			results[i] = sized{size: size, warnings: warnings, err: err}
			completed++
			opts.Progress.Report(float64(completed) / total)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			results[i] = sized{err: errors.Wrap(err, errors.ErrInternal, "failed to schedule sizing")}
			completed++
			opts.Progress.Report(float64(completed) / total)
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCancelled, "scan cancelled")
	}
	return results, nil
}
