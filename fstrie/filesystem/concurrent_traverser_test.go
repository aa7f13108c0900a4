package filesystem

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem/common"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStructure creates width directories under root, each holding
// files files, and returns the directory paths
func createTestStructure(t *testing.T, fs afero.Fs, root string, width, files int) []string {
	t.Helper()

	var dirs []string
	for i := 0; i < width; i++ {
		dir := fmt.Sprintf("%s/dir%02d", root, i)
		for j := 0; j < files; j++ {
			require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("%s/file%d.txt", dir, j), nil, 0o644))
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

func newTestFS(fs afero.Fs) *FileSystem {
	return New(
		WithFs(fs),
		WithWorkingDirectory(func() (string, error) { return "/", nil }),
	)
}

func TestConcurrentTraverser_PreservesOrder(t *testing.T) {
	memFs := afero.NewMemMapFs()
	dirs := createTestStructure(t, memFs, "/data", 24, 3)

	ct := NewConcurrentTraverser(newTestFS(memFs), 4)
	results, err := ct.BuildAll(context.Background(), dirs)
	require.NoError(t, err)
	require.Len(t, results, len(dirs))

	for i, res := range results {
		assert.Equal(t, dirs[i], res.Path)
		require.NoError(t, res.Error)
		assert.Equal(t, fmt.Sprintf("dir%02d", i), res.Result.Root.Value)
		assert.Equal(t, []string{"file0.txt", "file1.txt", "file2.txt"}, res.Result.Root.SortedKeys())
		assert.Equal(t, []string{"/", "data"}, res.Result.Prefix.Values())
	}
}

func TestConcurrentTraverser_CollectsErrors(t *testing.T) {
	memFs := afero.NewMemMapFs()
	dirs := createTestStructure(t, memFs, "/data", 2, 1)
	paths := []string{dirs[0], "/data/missing", dirs[1]}

	results, err := NewConcurrentTraverser(newTestFS(memFs), 2).BuildAll(context.Background(), paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPathNotFound)
	assert.Contains(t, err.Error(), "/data/missing")

	require.Len(t, results, 3)
	assert.NotNil(t, results[0].Result)
	assert.Nil(t, results[1].Result)
	assert.ErrorIs(t, results[1].Error, common.ErrPathNotFound)
	assert.NotNil(t, results[2].Result, "Other paths should still be built")
}

func TestConcurrentTraverser_FailFast(t *testing.T) {
	memFs := afero.NewMemMapFs()
	createTestStructure(t, memFs, "/data", 1, 1)

	results, err := NewConcurrentTraverser(newTestFS(memFs), 1).
		WithFailFast(true).
		BuildAll(context.Background(), []string{"/data/missing"})
	assert.ErrorIs(t, err, common.ErrPathNotFound)
	assert.Len(t, results, 1)
}

func TestConcurrentTraverser_Defaults(t *testing.T) {
	ct := NewConcurrentTraverser(newTestFS(afero.NewMemMapFs()), 0)
	assert.Equal(t, runtime.NumCPU(), ct.MaxWorkers())

	results, err := ct.BuildAll(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}
