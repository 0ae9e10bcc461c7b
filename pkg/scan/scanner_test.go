// pkg/scan/scanner_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: testutil.ProfileEnvironment (sparse files on EnvIsolated)
// PURPOSE: Test ranking, classification, progress and cancellation

package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	slimerrors "github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/testutil"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = int64(1024 * 1024)

func scanOptions(env *testutil.ProfileEnvironment) Options {
	return Options{
		FS:             env.FS,
		ProfileRoot:    env.ProfileRoot,
		RelocationRoot: env.RelocationRoot,
		Threshold:      500 * mib,
		Excluded:       []string{"AppData"},
		DocumentsName:  "Documents",
		Workers:        2,
	}
}

func TestScan_ThresholdClassification(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvIsolated)
	env.WriteFileOfSize(env.Path("Videos", "movie.mkv"), 600*mib)
	env.WriteFileOfSize(env.Path("Notes", "notes.db"), 10*mib)
	env.WriteFileOfSize(env.Path("AppData", "cache.bin"), 900*mib)

	res, err := Scan(context.Background(), scanOptions(env))
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, types.FolderEntry{
		SourcePath: env.Path("Videos"),
		TargetPath: env.RelocatedPath("Videos"),
		SizeBytes:  600 * mib,
		ShouldMove: true,
	}, res.Entries[0])
	assert.Equal(t, env.Path("Notes"), res.Entries[1].SourcePath)
	assert.False(t, res.Entries[1].ShouldMove)

	assert.Equal(t, 610*mib, res.TotalBytes)
	assert.Len(t, res.Suggested(), 1)
}

func TestScan_ThresholdIsInclusive(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(env.Path("Exact"), testutil.FileTree{"f": int64(64)})

	opts := scanOptions(env)
	opts.Threshold = 64

	res, err := Scan(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.True(t, res.Entries[0].ShouldMove)
}

func TestScan_RankingAndTies(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(env.Path("Bravo"), testutil.FileTree{"f": int64(10)})
	env.WithFileTree(env.Path("Alpha"), testutil.FileTree{"f": int64(10)})
	env.WithFileTree(env.Path("Charlie"), testutil.FileTree{"f": int64(30)})
	env.WithFileTree(env.Path("Documents", "Zulu"), testutil.FileTree{"f": int64(10)})

	res, err := Scan(context.Background(), scanOptions(env))
	require.NoError(t, err)

	var got []string
	for _, e := range res.Entries {
		got = append(got, e.SourcePath)
	}
	assert.Equal(t, []string{
		env.Path("Charlie"),
		env.Path("Alpha"),
		env.Path("Bravo"),
		env.Path("Documents", "Zulu"),
	}, got)
}

func TestScan_ProgressIsMonotonic(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		env.WithFileTree(env.Path(name), testutil.FileTree{"f": int64(len(name))})
	}

	var (
		mu       sync.Mutex
		reported []float64
	)
	opts := scanOptions(env)
	opts.Workers = 4
	opts.Progress = func(f float64) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, f)
	}

	_, err := Scan(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, reported, 7)
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1])
	}
	assert.Equal(t, 1.0, reported[len(reported)-1])
}

func TestScan_EmptyProfileReportsDone(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)

	var reported []float64
	opts := scanOptions(env)
	opts.Progress = func(f float64) { reported = append(reported, f) }

	res, err := Scan(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Equal(t, []float64{1}, reported)
}

func TestScan_CandidateFailureIsDropped(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(env.Path("Good"), testutil.FileTree{"f": int64(1)})
	env.WithFileTree(env.Path("Bad"), testutil.FileTree{"f": int64(1)})

	opts := scanOptions(env)
	opts.FS = testutil.NewFaultyFS(env.FS).WithError(testutil.OpReadDir, env.Path("Bad"), errors.New("denied"))

	res, err := Scan(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, res.Entries, 1)
	assert.Equal(t, env.Path("Good"), res.Entries[0].SourcePath)

	failures := types.FilterFailures(res.Warnings, types.ScanCandidateFailure)
	require.Len(t, failures, 1)
	assert.Equal(t, env.Path("Bad"), failures[0].Path)
}

func TestScan_Cancelled(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	env.WithFileTree(env.Path("A"), testutil.FileTree{"f": int64(1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Scan(ctx, scanOptions(env))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, slimerrors.IsErrorCode(err, slimerrors.ErrCancelled))
}

func TestScan_MissingProfile(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	opts := scanOptions(env)
	opts.ProfileRoot = env.Path("nobody")

	_, err := Scan(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, slimerrors.IsErrorCode(err, slimerrors.ErrNotFound))
}
