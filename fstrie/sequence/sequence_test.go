package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencePersistence(t *testing.T) {
	t.Run("Append leaves the original unchanged", func(t *testing.T) {
		base := FromSlice([]string{"/", "home"})
		saved := base.Values()

		next := base.Append("user")

		assert.Equal(t, saved, base.Values(), "Base should be unchanged after append")
		assert.Equal(t, []string{"/", "home", "user"}, next.Values())
	})

	t.Run("Pop leaves the original unchanged", func(t *testing.T) {
		base := FromSlice([]int{1, 2, 3})

		popped, removed, err := base.Pop()
		require.NoError(t, err)

		assert.Equal(t, 3, removed)
		assert.Equal(t, []int{1, 2}, popped.Values())
		assert.Equal(t, []int{1, 2, 3}, base.Values(), "Base should be unchanged after pop")
	})

	t.Run("Sibling appends do not observe each other", func(t *testing.T) {
		base := FromSlice([]string{"a", "b"})

		left := base.Append("left")
		right := base.Append("right")

		assert.Equal(t, []string{"a", "b", "left"}, left.Values())
		assert.Equal(t, []string{"a", "b", "right"}, right.Values())
		assert.Equal(t, 2, base.Len())
	})

	t.Run("Slice leaves the original unchanged", func(t *testing.T) {
		base := FromSlice([]int{1, 2, 3, 4})

		_ = base.Slice(1, 3)
		_ = base.Slice(0, 2)

		assert.Equal(t, []int{1, 2, 3, 4}, base.Values())
	})
}

func TestAppendPopInverse(t *testing.T) {
	cases := [][]string{
		{},
		{"/"},
		{"/", "var", "log"},
	}

	for _, items := range cases {
		s := FromSlice(items)
		back, removed, err := s.Append("x").Pop()
		require.NoError(t, err)

		assert.Equal(t, "x", removed)
		assert.True(t, Equal(s, back), "pop(append(S, x)) should equal S for %v", items)
	}
}

func TestPopEmpty(t *testing.T) {
	s := Empty[string]()

	_, _, err := s.Pop()
	assert.ErrorIs(t, err, ErrEmptySequence)

	_, err = s.Last()
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestGet(t *testing.T) {
	s := FromSlice([]string{"a", "b", "c"})

	tests := []struct {
		name    string
		index   int
		want    string
		wantErr bool
	}{
		{"first", 0, "a", false},
		{"last", 2, "c", false},
		{"negative last", -1, "c", false},
		{"negative first", -3, "a", false},
		{"past end", 3, "", true},
		{"too negative", -4, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Get(tt.index)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIndexOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Empty[int]().Get(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSliceClamps(t *testing.T) {
	s := FromSlice([]int{0, 1, 2, 3, 4})

	tests := []struct {
		name       string
		start, end int
		want       []int
	}{
		{"full", 0, 5, []int{0, 1, 2, 3, 4}},
		{"prefix", 0, 4, []int{0, 1, 2, 3}},
		{"middle", 1, 3, []int{1, 2}},
		{"end past length", 2, 99, []int{2, 3, 4}},
		{"start before zero", -99, 2, []int{0, 1}},
		{"negative end", 0, -1, []int{0, 1, 2, 3}},
		{"negative start", -2, 5, []int{3, 4}},
		{"inverted", 4, 1, []int{}},
		{"empty range", 2, 2, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Slice(tt.start, tt.end)
			assert.Equal(t, tt.want, got.Values())
			assert.Equal(t, len(tt.want), got.Len())
		})
	}

	assert.Equal(t, []int{3, 4}, s.SliceFrom(3).Values())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.SliceFrom(-99).Values())
	assert.Empty(t, s.SliceFrom(10).Values())
}

func TestSlicePrefixSharesNodes(t *testing.T) {
	s := FromSlice([]string{"/", "a", "b"})
	prefix := s.Slice(0, 2)

	parent, _, err := s.Pop()
	require.NoError(t, err)
	assert.Same(t, parent.tail, prefix.tail, "A prefix slice should reuse the original nodes")
}

func TestIteration(t *testing.T) {
	s := FromSlice([]string{"x", "y", "z"})

	var forward []string
	for i, v := range s.All() {
		assert.Equal(t, len(forward), i)
		forward = append(forward, v)
	}
	assert.Equal(t, []string{"x", "y", "z"}, forward)

	var backward []string
	for i, v := range s.Backward() {
		assert.Equal(t, 2-len(backward), i)
		backward = append(backward, v)
	}
	assert.Equal(t, []string{"z", "y", "x"}, backward)

	for range s.All() {
		break
	}
	assert.Equal(t, "[x y z]", s.String())
}

func TestEqual(t *testing.T) {
	a := FromSlice([]string{"/", "a"})
	b := FromSlice([]string{"/", "a"})

	assert.True(t, Equal(a, b))
	assert.True(t, Equal(a, a.Append("b").Slice(0, 2)))
	assert.False(t, Equal(a, a.Append("b")))
	assert.False(t, Equal(a, FromSlice([]string{"/", "b"})))
	assert.True(t, Equal(Empty[string](), Sequence[string]{}))
}
