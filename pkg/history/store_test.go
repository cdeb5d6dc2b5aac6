package history

import (
	"fmt"
	"testing"

	"github.com/shouni/gemini-image-studio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(i int) domain.GenerationResult {
	return domain.GenerationResult{ID: fmt.Sprintf("id-%d", i), DataURI: fmt.Sprintf("data:image/png;base64,%d", i)}
}

func TestStore_Prepend(t *testing.T) {
	t.Run("新しいものが先頭に来る", func(t *testing.T) {
		s := NewStore()
		require.True(t, s.IsEmpty())

		s.Prepend(entry(1))
		s.Prepend(entry(2))

		assert.False(t, s.IsEmpty())
		assert.Equal(t, []domain.GenerationResult{entry(2), entry(1)}, s.Entries())
	})

	t.Run("上限を超えると最古のものから捨てられる", func(t *testing.T) {
		s := NewStore()
		const n = Capacity + 5
		for i := 1; i <= n; i++ {
			s.Prepend(entry(i))
		}

		got := s.Entries()
		require.Len(t, got, Capacity)
		for i, e := range got {
			assert.Equal(t, entry(n-i), e, "index %d", i)
		}
		_, found := s.Find(entry(n - Capacity).ID)
		assert.False(t, found, "19 件前の結果は残っていないこと")
	})

	t.Run("同一の結果も重複して保持する", func(t *testing.T) {
		s := NewStore()
		s.Prepend(entry(1))
		s.Prepend(entry(1))
		assert.Equal(t, 2, s.Len())
	})
}

func TestStore_SelectAndFind(t *testing.T) {
	s := NewStore()
	for i := 1; i <= 3; i++ {
		s.Prepend(entry(i))
	}
	before := s.Entries()

	assert.Equal(t, entry(2), s.Select(entry(2)))
	got, ok := s.Find("id-1")
	require.True(t, ok)
	assert.Equal(t, entry(1), got)
	assert.Equal(t, before, s.Entries(), "参照で順序は変わらない")

	_, ok = s.Find("missing")
	assert.False(t, ok)
}

func TestStore_EntriesIsCopy(t *testing.T) {
	s := NewStore()
	s.Prepend(entry(1))

	got := s.Entries()
	got[0] = entry(99)

	assert.Equal(t, entry(1), s.Entries()[0])
}
