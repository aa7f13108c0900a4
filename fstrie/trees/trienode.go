package trees

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/fstrie/fstrie/sequence"
)

var ErrInvalidTrie = errors.New("invalid trie")

// TrieNode is one filesystem entry. Directories have IsEnd false and hold their
// entries in Children keyed by each child's own name; files and other
// non-directories have IsEnd true and no children.
type TrieNode[V any] struct {
	Value    V                       `json:"value"`
	IsEnd    bool                    `json:"is_end"`
	Children map[string]*TrieNode[V] `json:"children"`
}

// NewTrieNode creates a node with an empty children map
func NewTrieNode[V any](value V, isEnd bool) *TrieNode[V] {
	return &TrieNode[V]{
		Value:    value,
		IsEnd:    isEnd,
		Children: make(map[string]*TrieNode[V]),
	}
}

// Child returns the direct child stored under key
func (n *TrieNode[V]) Child(key string) (*TrieNode[V], bool) {
	child, ok := n.Children[key]
	return child, ok
}

// Lookup follows keys from n and returns the node they lead to. No keys
// returns n itself.
func (n *TrieNode[V]) Lookup(keys ...string) (*TrieNode[V], bool) {
	current := n
	for _, key := range keys {
		next, ok := current.Children[key]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// SortedKeys returns the child keys in lexicographic order
func (n *TrieNode[V]) SortedKeys() []string {
	keys := make([]string, 0, len(n.Children))
	for key := range n.Children {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Walk visits n and every descendant depth-first, children in key order. keys
// holds the child keys leading from n to the visited node and is empty for n.
// Returning an error from fn stops the walk with that error.
func (n *TrieNode[V]) Walk(fn func(keys sequence.Sequence[string], node *TrieNode[V]) error) error {
	return n.walk(sequence.Empty[string](), fn)
}

func (n *TrieNode[V]) walk(keys sequence.Sequence[string], fn func(sequence.Sequence[string], *TrieNode[V]) error) error {
	if err := fn(keys, n); err != nil {
		return err
	}
	for _, key := range n.SortedKeys() {
		if err := n.Children[key].walk(keys.Append(key), fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree rooted at n, n included
func (n *TrieNode[V]) Count() int {
	count := 1
	for _, child := range n.Children {
		count += child.Count()
	}
	return count
}

// Validate checks the structural invariants: end nodes have no children and
// every child is stored under the key matching its own value.
func Validate[V any](root *TrieNode[V]) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidTrie)
	}
	return root.Walk(func(keys sequence.Sequence[string], node *TrieNode[V]) error {
		if node == nil {
			return fmt.Errorf("%w: nil node at %v", ErrInvalidTrie, keys)
		}
		if node.IsEnd && len(node.Children) > 0 {
			return fmt.Errorf("%w: end node %v has %d children", ErrInvalidTrie, keys, len(node.Children))
		}
		for key, child := range node.Children {
			if child == nil {
				return fmt.Errorf("%w: nil child %q under %v", ErrInvalidTrie, key, keys)
			}
			if fmt.Sprint(child.Value) != key {
				return fmt.Errorf("%w: child %q under %v has value %v", ErrInvalidTrie, key, keys, child.Value)
			}
		}
		return nil
	})
}

// Decorator formats a node's label when rendering
type Decorator[V any] func(node *TrieNode[V]) string

// Render writes the subtree in the layout of the tree(1) command
func (n *TrieNode[V]) Render(w io.Writer) error {
	return n.RenderWith(w, nil)
}

// RenderWith is Render with a custom label formatter. A nil decorate prints
// the node value.
func (n *TrieNode[V]) RenderWith(w io.Writer, decorate Decorator[V]) error {
	if decorate == nil {
		decorate = func(node *TrieNode[V]) string { return fmt.Sprint(node.Value) }
	}
	if _, err := fmt.Fprintln(w, decorate(n)); err != nil {
		return err
	}
	return n.renderChildren(w, "", decorate)
}

func (n *TrieNode[V]) renderChildren(w io.Writer, indent string, decorate Decorator[V]) error {
	keys := n.SortedKeys()
	for i, key := range keys {
		branch, next := "├── ", "│   "
		if i == len(keys)-1 {
			branch, next = "└── ", "    "
		}

		child := n.Children[key]
		if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, branch, decorate(child)); err != nil {
			return err
		}
		if err := child.renderChildren(w, indent+next, decorate); err != nil {
			return err
		}
	}
	return nil
}

func (n *TrieNode[V]) String() string {
	var sb strings.Builder
	_ = n.Render(&sb)
	return sb.String()
}
