// Package history は生成結果を新しい順に保持する上限付きのリストを提供します。
package history

import "github.com/shouni/gemini-image-studio/pkg/domain"

// Capacity は保持する履歴の最大件数です。
const Capacity = 18

// Store は最新が先頭の履歴です。上限を超えると末尾（最古）から捨てます。
// 参照によって順序が変わることはありません。
//
// Store はスレッドセーフではありません。排他は所有者（Controller）が行います。
type Store struct {
	entries []domain.GenerationResult
}

// NewStore は空の履歴を作成します。
func NewStore() *Store {
	return &Store{entries: make([]domain.GenerationResult, 0, Capacity)}
}

// Prepend は先頭に追加します。重複の排除は行いません。
func (s *Store) Prepend(entry domain.GenerationResult) {
	s.entries = append(s.entries, domain.GenerationResult{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = entry
	if len(s.entries) > Capacity {
		clear(s.entries[Capacity:])
		s.entries = s.entries[:Capacity]
	}
}

// Select は渡されたエントリをそのまま返します。
func (s *Store) Select(entry domain.GenerationResult) domain.GenerationResult {
	return entry
}

// Find は ID でエントリを探します。
func (s *Store) Find(id string) (domain.GenerationResult, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.GenerationResult{}, false
}

func (s *Store) IsEmpty() bool { return len(s.entries) == 0 }

func (s *Store) Len() int { return len(s.entries) }

// Entries は新しい順のコピーを返します。
func (s *Store) Entries() []domain.GenerationResult {
	out := make([]domain.GenerationResult, len(s.entries))
	copy(out, s.entries)
	return out
}
