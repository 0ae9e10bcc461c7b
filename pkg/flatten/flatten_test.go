// pkg/flatten/flatten_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: testutil.ProfileEnvironment
// PURPOSE: Test Downloads flattening, collision naming and failure handling

package flatten

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	slimerrors "github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/testutil"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_FilesAndFolders(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvIsolated)
	env.WithFileTree(env.Path("Downloads"), testutil.FileTree{
		"a.zip":   "aaaa",
		"b.iso":   "bb",
		"c.pdf":   "c",
		"project": testutil.FileTree{"src.go": "package x", "sub": testutil.FileTree{"x.txt": "x"}},
	})
	dest := env.RelocatedPath("Downloads")

	var progress []float64
	res, err := Flatten(context.Background(), Options{
		FS:          env.FS,
		Source:      env.Path("Downloads"),
		Destination: dest,
		Progress:    func(f float64) { progress = append(progress, f) },
	})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Moved)
	assert.Equal(t, int64(4+2+1+len("package x")+1), res.BytesMoved)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1}, progress)

	entries, err := env.FS.ReadDir(env.Path("Downloads"))
	require.NoError(t, err)
	assert.Empty(t, entries, "source is emptied")
	testutil.AssertRealDir(t, env.FS, env.Path("Downloads"))

	testutil.AssertFileContent(t, env.FS, filepath.Join(dest, "a.zip"), "aaaa")
	testutil.AssertRealDir(t, env.FS, filepath.Join(dest, "project"))
	testutil.AssertFileContent(t, env.FS, filepath.Join(dest, "project", "sub", "x.txt"), "x")

	for _, item := range res.Items {
		testutil.AssertNotExists(t, env.FS, item.From)
	}
	assert.True(t, res.Items[3].IsDir)
}

func TestFlatten_NameCollisions(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	dest := env.RelocatedPath("Downloads")
	env.WriteFile(env.Path("Downloads", "report.pdf"), "new")
	env.WriteFile(env.Path("Downloads", ".env"), "new")
	env.WriteFile(filepath.Join(dest, "report.pdf"), "old")
	env.WriteFile(filepath.Join(dest, "report (1).pdf"), "older")
	env.WriteFile(filepath.Join(dest, ".env"), "old")

	res, err := Flatten(context.Background(), Options{FS: env.FS, Source: env.Path("Downloads"), Destination: dest})
	require.NoError(t, err)
	require.Equal(t, 2, res.Moved)

	testutil.AssertFileContent(t, env.FS, filepath.Join(dest, "report.pdf"), "old")
	testutil.AssertFileContent(t, env.FS, filepath.Join(dest, "report (1).pdf"), "older")
	testutil.AssertFileContent(t, env.FS, filepath.Join(dest, "report (2).pdf"), "new")
	testutil.AssertFileContent(t, env.FS, filepath.Join(dest, ".env (1)"), "new")
}

func TestFlatten_PerItemFailureContinues(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile(env.Path("Downloads", "locked.bin"), "l")
	env.WriteFile(env.Path("Downloads", "ok.bin"), "o")

	fsys := testutil.NewFaultyFS(env.FS).WithError(testutil.OpRename, env.Path("Downloads", "locked.bin"), errors.New("in use"))
	res, err := Flatten(context.Background(), Options{FS: fsys, Source: env.Path("Downloads"), Destination: env.RelocatedPath("Downloads")})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Moved)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, types.MoveFailure, res.Failures[0].Kind)
	testutil.AssertFileContent(t, env.FS, env.Path("Downloads", "locked.bin"), "l")
}

func TestFlatten_Preconditions(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)

	_, err := Flatten(context.Background(), Options{FS: env.FS, Source: env.Path("Downloads"), Destination: env.RelocatedPath("Downloads")})
	require.Error(t, err)
	assert.True(t, slimerrors.IsErrorCode(err, slimerrors.ErrNotFound))

	env.MkdirAll(env.Path("Downloads"))
	_, err = Flatten(context.Background(), Options{FS: env.FS, Source: env.Path("Downloads"), Destination: env.Path("Downloads", "flat")})
	require.Error(t, err)
	assert.True(t, slimerrors.IsErrorCode(err, slimerrors.ErrInvalidInput))

	fsys := testutil.NewFaultyFS(env.FS).WithError(testutil.OpMkdirAll, env.RelocatedPath("Downloads"), errors.New("read-only"))
	_, err = Flatten(context.Background(), Options{FS: fsys, Source: env.Path("Downloads"), Destination: env.RelocatedPath("Downloads")})
	require.Error(t, err)
	assert.True(t, slimerrors.IsErrorCode(err, slimerrors.ErrDirCreate))
}

func TestFlatten_EmptySource(t *testing.T) {
	env := testutil.NewProfileEnvironment(t, testutil.EnvMemoryOnly)
	env.MkdirAll(env.Path("Downloads"))

	var progress []float64
	res, err := Flatten(context.Background(), Options{
		FS: env.FS, Source: env.Path("Downloads"), Destination: env.RelocatedPath("Downloads"),
		Progress: func(f float64) { progress = append(progress, f) },
	})
	require.NoError(t, err)
	assert.Zero(t, res.Moved)
	assert.Equal(t, []float64{1}, progress)
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		name, base, ext string
	}{
		{"report.pdf", "report", ".pdf"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{".bashrc", ".bashrc", ""},
		{"Makefile", "Makefile", ""},
	}
	for _, tt := range tests {
		base, ext := splitExt(tt.name)
		assert.Equal(t, tt.base, base, tt.name)
		assert.Equal(t, tt.ext, ext, tt.name)
	}
}
