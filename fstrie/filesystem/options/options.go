package options

import (
	internal "github.com/ZanzyTHEbar/fstrie/fstrie"
	"github.com/ZanzyTHEbar/fstrie/fstrie/config"
)

// TraversalOptions configures how a directory trie is built
type TraversalOptions struct {
	MaxDepth       int      // Maximum depth below the root (0 = unlimited)
	IncludeHidden  bool     // Include entries whose name starts with a dot
	IgnoreFile     string   // Gitignore-style file read from the build root, if present
	IgnorePatterns []string // Extra gitignore-style patterns
}

// DefaultTraversalOptions mirrors the directory exactly: nothing is hidden or ignored
func DefaultTraversalOptions() TraversalOptions {
	return TraversalOptions{
		MaxDepth:      internal.DefaultMaxDepth,
		IncludeHidden: true,
	}
}

// FromConfig converts the trie section of the configuration
func FromConfig(cfg config.TrieConfig) TraversalOptions {
	return TraversalOptions{
		MaxDepth:       cfg.MaxDepth,
		IncludeHidden:  cfg.IncludeHidden,
		IgnoreFile:     cfg.IgnoreFile,
		IgnorePatterns: append([]string(nil), cfg.IgnorePatterns...),
	}
}

// Filters reports whether any option can drop entries from the trie
func (o TraversalOptions) Filters() bool {
	return !o.IncludeHidden || o.IgnoreFile != "" || len(o.IgnorePatterns) > 0
}
