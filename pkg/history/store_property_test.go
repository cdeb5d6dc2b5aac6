package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// 任意回数の追加後、件数は min(n, Capacity) で、並びは直近 Capacity 件の新しい順になる
func TestProperty_Store_BoundedMostRecentFirst(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, Capacity*4).Draw(rt, "n")

		s := NewStore()
		for i := 0; i < n; i++ {
			s.Prepend(entry(i))
		}

		want := min(n, Capacity)
		require.Equal(rt, want, s.Len())
		assert.Equal(rt, n == 0, s.IsEmpty())

		got := s.Entries()
		for i, e := range got {
			assert.Equal(rt, entry(n-1-i), e)
		}
	})
}

// 参照 (Select / Find) は履歴を変えない
func TestProperty_Store_SelectDoesNotReorder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, Capacity*2).Draw(rt, "n")
		s := NewStore()
		for i := 0; i < n; i++ {
			s.Prepend(entry(i))
		}
		before := s.Entries()

		idx := rapid.IntRange(0, len(before)-1).Draw(rt, "idx")
		target := before[idx]
		assert.Equal(rt, target, s.Select(target))
		found, ok := s.Find(target.ID)
		require.True(rt, ok)
		assert.Equal(rt, target, found)

		assert.Equal(rt, before, s.Entries())
	})
}
