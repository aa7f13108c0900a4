package trees

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ZanzyTHEbar/fstrie/fstrie/sequence"

	"github.com/rs/zerolog"
)

var ErrMaxDepthExceeded = errors.New("maximum depth exceeded")

// DirectoryReader is the filesystem view the builder walks
type DirectoryReader interface {
	IsDirectory(path string) (bool, error)
	ListChildren(path string) ([]string, error)
	JoinPath(components []string) string
}

// EntryFilter decides whether the entry at components is kept. The build root
// is never filtered.
type EntryFilter func(components sequence.Sequence[string], isDir bool) bool

// TrieBuilder builds a TrieNode tree that mirrors a directory hierarchy
type TrieBuilder struct {
	reader   DirectoryReader
	maxDepth int
	filter   EntryFilter
	logger   zerolog.Logger
}

// BuilderOption customizes a TrieBuilder
type BuilderOption func(*TrieBuilder)

// WithMaxDepth bounds how deep below the root the walk may go. Zero or less
// means unbounded.
func WithMaxDepth(depth int) BuilderOption {
	return func(b *TrieBuilder) {
		b.maxDepth = depth
	}
}

// WithFilter drops entries for which filter returns false
func WithFilter(filter EntryFilter) BuilderOption {
	return func(b *TrieBuilder) {
		b.filter = filter
	}
}

// WithBuilderLogger sets the logger used for per-directory debug output
func WithBuilderLogger(logger zerolog.Logger) BuilderOption {
	return func(b *TrieBuilder) {
		b.logger = logger
	}
}

func NewTrieBuilder(reader DirectoryReader, opts ...BuilderOption) *TrieBuilder {
	b := &TrieBuilder{
		reader: reader,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build walks the filesystem depth-first from the absolute components and
// returns the root node. Each node is complete before it is attached to its
// parent. Any reader error aborts the build.
func (b *TrieBuilder) Build(ctx context.Context, components sequence.Sequence[string]) (*TrieNode[string], error) {
	if components.IsEmpty() {
		return nil, fmt.Errorf("cannot build trie: %w", sequence.ErrEmptySequence)
	}

	path := b.reader.JoinPath(components.Values())
	isDir, err := b.reader.IsDirectory(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return b.build(ctx, components, path, isDir, 0)
}

func (b *TrieBuilder) build(ctx context.Context, components sequence.Sequence[string], path string, isDir bool, depth int) (*TrieNode[string], error) {
	name, _ := components.Last()
	if !isDir {
		return NewTrieNode(name, true), nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	names, err := b.reader.ListChildren(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	slices.Sort(names)

	b.logger.Debug().
		Str("path", path).
		Int("depth", depth).
		Int("entries", len(names)).
		Msg("building directory node")

	node := NewTrieNode(name, false)
	for _, childName := range names {
		childComponents := components.Append(childName)
		childPath := b.reader.JoinPath(childComponents.Values())

		childIsDir, err := b.reader.IsDirectory(childPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", childPath, err)
		}
		if b.filter != nil && !b.filter(childComponents, childIsDir) {
			continue
		}
		if b.maxDepth > 0 && depth+1 > b.maxDepth {
			return nil, fmt.Errorf("%w: %s is deeper than %d levels", ErrMaxDepthExceeded, childPath, b.maxDepth)
		}

		child, err := b.build(ctx, childComponents, childPath, childIsDir, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children[childName] = child
	}

	return node, nil
}
