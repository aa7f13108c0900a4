package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem/common"
	"github.com/ZanzyTHEbar/fstrie/fstrie/filesystem/options"
	"github.com/ZanzyTHEbar/fstrie/fstrie/paths"
	"github.com/ZanzyTHEbar/fstrie/fstrie/sequence"
	"github.com/ZanzyTHEbar/fstrie/fstrie/trees"

	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

// FileSystem turns filesystem paths into tries that mirror the directory
// hierarchy below them.
type FileSystem struct {
	host  *common.HostFS
	getwd func() (string, error)
	split paths.SplitFunc
	opts  options.TraversalOptions

	validation *common.ValidationUtils
	errorUtils *common.ErrorUtils
	logger     zerolog.Logger
}

// Option customizes a FileSystem
type Option func(*FileSystem)

// WithFs reads through fs instead of the host operating system
func WithFs(fs afero.Fs) Option {
	return func(f *FileSystem) {
		f.host = common.NewHostFS(fs)
	}
}

// WithWorkingDirectory sets how the working directory is obtained. Relative
// paths are resolved against it.
func WithWorkingDirectory(getwd func() (string, error)) Option {
	return func(f *FileSystem) {
		f.getwd = getwd
	}
}

// WithSplitter replaces the host path splitter
func WithSplitter(split paths.SplitFunc) Option {
	return func(f *FileSystem) {
		f.split = split
	}
}

// WithTraversalOptions sets depth bounds and filtering
func WithTraversalOptions(opts options.TraversalOptions) Option {
	return func(f *FileSystem) {
		f.opts = opts
	}
}

// WithLogger sets a custom logger
func WithLogger(logger zerolog.Logger) Option {
	return func(f *FileSystem) {
		f.logger = logger
	}
}

// New creates a FileSystem reading the host OS relative to the process
// working directory
func New(opts ...Option) *FileSystem {
	f := &FileSystem{
		host:       common.NewHostFS(nil),
		getwd:      common.Getwd,
		split:      common.SplitLastSegment,
		opts:       options.DefaultTraversalOptions(),
		validation: common.NewValidationUtils(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.errorUtils = common.NewErrorUtils(f.logger)
	return f
}

// Result is the outcome of one build
type Result struct {
	// Components is the absolute component stack of the requested path
	Components sequence.Sequence[string]
	// Prefix is Components without its last element: the containing directory
	Prefix   sequence.Sequence[string]
	Root     *trees.TrieNode[string]
	Duration time.Duration
}

// Index returns a path index over the trie
func (r *Result) Index() *trees.PathIndex {
	return trees.NewPathIndex(r.Prefix, r.Root, zerolog.Nop())
}

// Metrics counts the nodes of the trie
func (r *Result) Metrics() trees.TreeMetrics {
	m := trees.ComputeMetrics(r.Root)
	m.ProcessingTime = r.Duration
	return m
}

// Snapshot captures the result under a fresh ID
func (r *Result) Snapshot() *trees.Snapshot {
	snap := trees.NewSnapshot(r.Prefix, r.Root)
	snap.Metrics.ProcessingTime = r.Duration
	return snap
}

// BuildTrie resolves path against the working directory and builds the trie
// rooted at it. path may be absolute or relative and may name a file or a
// directory. It fails with common.ErrPathNotFound when nothing exists there.
func (f *FileSystem) BuildTrie(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	if err := f.validation.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", common.ErrPathNotFound, path, err)
	}

	cwd, err := f.getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	// The path is checked as given, so the OS resolves ".." physically
	rawPath := joinUnclean(cwd, path)
	exists, err := f.host.Exists(rawPath)
	if err != nil {
		return nil, f.errorUtils.HandleOperationError(err, "check", rawPath)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", common.ErrPathNotFound, path)
	}

	components, err := f.resolve(cwd, path)
	if err != nil {
		return nil, err
	}
	absPath := f.host.JoinPath(components.Values())

	f.logger.Info().
		Str("path", path).
		Str("resolved", absPath).
		Msg("Starting trie build")

	filter, err := f.entryFilter(components)
	if err != nil {
		return nil, err
	}

	builder := trees.NewTrieBuilder(f.host,
		trees.WithMaxDepth(f.opts.MaxDepth),
		trees.WithFilter(filter),
		trees.WithBuilderLogger(f.logger),
	)
	root, err := builder.Build(ctx, components)
	if err != nil {
		return nil, fmt.Errorf("failed to build trie for %s: %w", absPath, err)
	}

	result := &Result{
		Components: components,
		Prefix:     components.Slice(0, components.Len()-1),
		Root:       root,
		Duration:   time.Since(start),
	}

	f.logger.Info().
		Str("path", absPath).
		Int("nodes", root.Count()).
		Dur("duration", result.Duration).
		Msg("Trie build completed")

	return result, nil
}

// BuildFilesystemTrie builds the trie for path on the host OS relative to the
// process working directory. It returns the absolute components of the
// directory containing path and the trie rooted at path.
func BuildFilesystemTrie(path string) (sequence.Sequence[string], *trees.TrieNode[string], error) {
	result, err := New().BuildTrie(context.Background(), path)
	if err != nil {
		return sequence.Sequence[string]{}, nil, err
	}
	return result.Prefix, result.Root, nil
}

// joinUnclean appends a relative path to cwd without cleaning the result.
// Absolute paths are returned unchanged.
func joinUnclean(cwd, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasSuffix(cwd, string(filepath.Separator)) {
		return cwd + path
	}
	return cwd + string(filepath.Separator) + path
}

// resolve replays the working directory's tokens and then path's tokens
func (f *FileSystem) resolve(cwd, path string) (sequence.Sequence[string], error) {
	cwdTokens, err := paths.Tokenize(cwd, f.split)
	if err != nil {
		return sequence.Sequence[string]{}, fmt.Errorf("failed to tokenize working directory %s: %w", cwd, err)
	}
	targetTokens, err := paths.Tokenize(path, f.split)
	if err != nil {
		return sequence.Sequence[string]{}, fmt.Errorf("failed to tokenize %s: %w", path, err)
	}

	components, err := paths.Resolve(cwdTokens, targetTokens)
	if err != nil {
		return sequence.Sequence[string]{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return components, nil
}

// entryFilter combines the hidden-entry rule with gitignore-style patterns from
// the options and from the ignore file in the build root. It returns nil when
// nothing would be filtered.
func (f *FileSystem) entryFilter(root sequence.Sequence[string]) (trees.EntryFilter, error) {
	if !f.opts.Filters() {
		return nil, nil
	}

	lines := append([]string(nil), f.opts.IgnorePatterns...)
	if f.opts.IgnoreFile != "" {
		rootPath := f.host.JoinPath(root.Values())
		isDir, err := f.host.IsDirectory(rootPath)
		if err != nil {
			return nil, f.errorUtils.HandleOperationError(err, "stat", rootPath)
		}
		if isDir {
			fileLines, err := f.readIgnoreFile(filepath.Join(rootPath, f.opts.IgnoreFile))
			if err != nil {
				return nil, err
			}
			lines = append(lines, fileLines...)
		}
	}

	var matcher *ignore.GitIgnore
	if len(lines) > 0 {
		matcher = ignore.CompileIgnoreLines(lines...)
	}

	rootLen := root.Len()
	includeHidden := f.opts.IncludeHidden
	return func(components sequence.Sequence[string], isDir bool) bool {
		name, _ := components.Last()
		if !includeHidden && strings.HasPrefix(name, ".") {
			return false
		}
		if matcher == nil {
			return true
		}

		rel := path.Join(components.SliceFrom(rootLen).Values()...)
		if matcher.MatchesPath(rel) || (isDir && matcher.MatchesPath(rel+"/")) {
			return false
		}
		return true
	}, nil
}

// readIgnoreFile returns the lines of an ignore file. A missing file has no lines.
func (f *FileSystem) readIgnoreFile(path string) ([]string, error) {
	data, err := f.host.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	f.logger.Debug().Str("file", path).Int("lines", len(lines)).Msg("Loaded ignore file")
	return lines, nil
}
