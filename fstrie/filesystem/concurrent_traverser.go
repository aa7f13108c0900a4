package filesystem

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// ConcurrentTraverser builds tries for several independent paths at once
// using a bounded conc worker pool. Each individual build stays single-threaded.
type ConcurrentTraverser struct {
	fs         *FileSystem
	maxWorkers int
	failFast   bool
}

// TraversalResult is the outcome for one requested path
type TraversalResult struct {
	Path   string
	Result *Result
	Error  error
}

// NewConcurrentTraverser creates a traverser over fs. maxWorkers <= 0 uses
// one worker per CPU.
func NewConcurrentTraverser(fs *FileSystem, maxWorkers int) *ConcurrentTraverser {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &ConcurrentTraverser{
		fs:         fs,
		maxWorkers: maxWorkers,
	}
}

// WithFailFast cancels the remaining builds after the first failure
func (ct *ConcurrentTraverser) WithFailFast(failFast bool) *ConcurrentTraverser {
	ct.failFast = failFast
	return ct
}

// MaxWorkers returns the pool size
func (ct *ConcurrentTraverser) MaxWorkers() int {
	return ct.maxWorkers
}

// BuildAll builds a trie for every path. Results are returned in the order of
// paths whatever order the builds finish in. The returned error joins every
// per-path failure; successful results are still populated.
func (ct *ConcurrentTraverser) BuildAll(ctx context.Context, paths []string) ([]TraversalResult, error) {
	start := time.Now()
	results := make([]TraversalResult, len(paths))

	p := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(ct.maxWorkers)
	if ct.failFast {
		p = p.WithCancelOnError()
	}

	for i, path := range paths {
		results[i].Path = path
		p.Go(func(ctx context.Context) error {
			result, err := ct.fs.BuildTrie(ctx, path)
			if err != nil {
				err = fmt.Errorf("%s: %w", path, err)
				results[i].Error = err
				return err
			}
			results[i].Result = result
			return nil
		})
	}

	err := p.Wait()

	ct.fs.logger.Debug().
		Int("paths", len(paths)).
		Int("workers", ct.maxWorkers).
		Dur("duration", time.Since(start)).
		Msg("Concurrent build completed")

	return results, err
}
