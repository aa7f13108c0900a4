package trees

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/ZanzyTHEbar/fstrie/fstrie/sequence"

	"github.com/armon/go-radix"
	"github.com/rs/zerolog"
)

// PathIndexStats tracks usage of the path index
type PathIndexStats struct {
	TotalNodes    int64
	PathLookups   int64
	PrefixLookups int64
	MaxDepth      int
}

// PathIndex maps absolute paths to the nodes of a built trie using a compressed
// trie (patricia tree), so lookups cost O(k) in the length of the path rather
// than in the number of nodes. The index is read-only once built and safe for
// concurrent use.
type PathIndex struct {
	tree          *radix.Tree
	maxDepth      int
	pathLookups   atomic.Int64
	prefixLookups atomic.Int64
	logger        zerolog.Logger
}

// NewPathIndex indexes every node under root. prefix holds the absolute
// components of the directory containing root.
func NewPathIndex(prefix sequence.Sequence[string], root *TrieNode[string], logger zerolog.Logger) *PathIndex {
	idx := &PathIndex{
		tree:   radix.New(),
		logger: logger,
	}
	if root == nil {
		return idx
	}

	idx.insert(prefix.Append(root.Value), root, 0)

	idx.logger.Debug().
		Int("total_nodes", idx.tree.Len()).
		Int("max_depth", idx.maxDepth).
		Msg("Path index built")

	return idx
}

// insert indexes node under components and then each of its descendants
func (idx *PathIndex) insert(components sequence.Sequence[string], node *TrieNode[string], depth int) {
	idx.tree.Insert(normalizePath(filepath.Join(components.Values()...)), node)
	idx.maxDepth = max(idx.maxDepth, depth)
	for key, child := range node.Children {
		idx.insert(components.Append(key), child, depth+1)
	}
}

// Lookup finds the node at an exact path
func (idx *PathIndex) Lookup(path string) (*TrieNode[string], bool) {
	normalizedPath := normalizePath(path)
	idx.pathLookups.Add(1)

	value, found := idx.tree.Get(normalizedPath)
	if !found {
		return nil, false
	}
	return value.(*TrieNode[string]), true
}

// PrefixLookup returns, in lexicographic order, every indexed path that starts
// with prefix as a string
func (idx *PathIndex) PrefixLookup(prefix string) []string {
	normalizedPrefix := normalizePath(prefix)
	idx.prefixLookups.Add(1)

	var results []string
	idx.tree.WalkPrefix(normalizedPrefix, func(key string, _ interface{}) bool {
		results = append(results, key)
		return false // Continue walking
	})
	return results
}

// Children returns the paths of the direct children of parentPath, sorted
func (idx *PathIndex) Children(parentPath string) []string {
	normalizedParent := normalizePath(parentPath)
	value, found := idx.tree.Get(normalizedParent)
	if !found {
		return nil
	}

	keys := value.(*TrieNode[string]).SortedKeys()
	if len(keys) == 0 {
		return nil
	}
	if !strings.HasSuffix(normalizedParent, "/") {
		normalizedParent += "/"
	}
	children := make([]string, len(keys))
	for i, key := range keys {
		children[i] = normalizedParent + key
	}
	return children
}

// Walk calls fn for each indexed path in order until fn returns true
func (idx *PathIndex) Walk(fn func(path string, node *TrieNode[string]) bool) {
	idx.tree.Walk(func(key string, value interface{}) bool {
		return fn(key, value.(*TrieNode[string]))
	})
}

// Size returns the number of indexed paths
func (idx *PathIndex) Size() int {
	return idx.tree.Len()
}

// GetStats returns a copy of the current statistics
func (idx *PathIndex) GetStats() PathIndexStats {
	return PathIndexStats{
		TotalNodes:    int64(idx.Size()),
		PathLookups:   idx.pathLookups.Load(),
		PrefixLookups: idx.prefixLookups.Load(),
		MaxDepth:      idx.maxDepth,
	}
}

// normalizePath ensures consistent path formatting for the index
func normalizePath(path string) string {
	// First replace backslashes with forward slashes (for Windows paths)
	normalized := strings.ReplaceAll(path, "\\", "/")
	normalized = filepath.ToSlash(filepath.Clean(normalized))

	// Remove trailing slash unless it's the root
	if len(normalized) > 1 && strings.HasSuffix(normalized, "/") {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized
}
