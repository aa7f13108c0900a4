// Package paths reduces textual filesystem paths to absolute component stacks.
//
// A path is first tokenized into a root-to-leaf stream of tokens (root, parent,
// current, child), then the working directory's stream and the target's stream
// are replayed in order against a persistent sequence of components.
package paths

import (
	"errors"
	"fmt"
)

var (
	ErrCannotAscendPastRoot = errors.New("cannot ascend past the filesystem root")
	ErrMissingRoot          = errors.New("token stream has no root")
	ErrUnknownToken         = errors.New("unknown path token")
	ErrSplitterDiverged     = errors.New("path splitter did not converge")
)

// Kind identifies which of the four token variants a Token is.
type Kind uint8

const (
	KindRoot Kind = iota + 1
	KindParent
	KindCurrent
	KindChild
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindParent:
		return "parent"
	case KindCurrent:
		return "current"
	case KindChild:
		return "child"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Token is one classified unit of a path. Value carries the root label for
// KindRoot and the entry name for KindChild, and is empty otherwise.
type Token struct {
	Kind  Kind
	Value string
}

// Root anchors a stream at the filesystem root labeled root, e.g. "/" or `C:\`.
func Root(root string) Token { return Token{Kind: KindRoot, Value: root} }

// Parent moves to the parent directory.
func Parent() Token { return Token{Kind: KindParent} }

// Current refers to the current directory and resolves to nothing.
func Current() Token { return Token{Kind: KindCurrent} }

// Child descends into the named entry.
func Child(name string) Token { return Token{Kind: KindChild, Value: name} }

func (t Token) String() string {
	switch t.Kind {
	case KindRoot, KindChild:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
	default:
		return t.Kind.String()
	}
}
