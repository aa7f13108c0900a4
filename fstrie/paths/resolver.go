package paths

import (
	"fmt"

	"github.com/ZanzyTHEbar/fstrie/fstrie/sequence"
)

// Resolve replays cwdTokens and then targetTokens against an empty component
// stack and returns the result, root label first. A Root token in targetTokens
// discards whatever the working directory established, so absolute and
// relative targets share one code path.
func Resolve(cwdTokens, targetTokens []Token) (sequence.Sequence[string], error) {
	stack := sequence.Empty[string]()

	for _, stream := range [][]Token{cwdTokens, targetTokens} {
		for _, tok := range stream {
			var err error
			if stack, err = apply(stack, tok); err != nil {
				return sequence.Sequence[string]{}, err
			}
		}
	}

	return stack, nil
}

func apply(stack sequence.Sequence[string], tok Token) (sequence.Sequence[string], error) {
	switch tok.Kind {
	case KindRoot:
		return sequence.FromSlice([]string{tok.Value}), nil
	case KindParent:
		switch stack.Len() {
		case 0:
			return stack, fmt.Errorf("%w: %s before any root", ErrMissingRoot, tok)
		case 1:
			root, _ := stack.Last()
			return stack, fmt.Errorf("%w: %q", ErrCannotAscendPastRoot, root)
		}
		parent, _, err := stack.Pop()
		return parent, err
	case KindCurrent:
		return stack, nil
	case KindChild:
		if stack.IsEmpty() {
			return stack, fmt.Errorf("%w: %s before any root", ErrMissingRoot, tok)
		}
		return stack.Append(tok.Value), nil
	default:
		return stack, fmt.Errorf("%w: %s", ErrUnknownToken, tok)
	}
}
