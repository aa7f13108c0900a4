package paths

import (
	"fmt"
	"slices"
)

// SplitFunc splits a path into everything before its last segment and the
// last segment itself. Applied repeatedly it must reach a prefix that splits
// into itself (the root, or "" for relative paths).
type SplitFunc func(path string) (head, tail string)

// Tokenize peels segments off raw with split until the prefix stops changing,
// then returns the tokens in root-to-leaf order. A non-empty irreducible prefix
// becomes a Root token; relative paths reduce to "" and get none. Empty
// segments, as produced by trailing separators, yield no token.
func Tokenize(raw string, split SplitFunc) ([]Token, error) {
	var reversed []Token

	path := raw
	for {
		head, tail := split(path)
		if head == path {
			if head != "" {
				reversed = append(reversed, Root(head))
			}
			break
		}
		if len(head) >= len(path) {
			return nil, fmt.Errorf("%w: %q split into %q", ErrSplitterDiverged, path, head)
		}

		if tok, ok := classify(tail); ok {
			reversed = append(reversed, tok)
		}
		path = head
	}

	slices.Reverse(reversed)
	return reversed, nil
}

func classify(segment string) (Token, bool) {
	switch segment {
	case "":
		return Token{}, false
	case ".":
		return Current(), true
	case "..":
		return Parent(), true
	default:
		return Child(segment), true
	}
}
