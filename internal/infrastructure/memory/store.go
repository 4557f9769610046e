package memory

import (
	"sort"

	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
)

// Record はストアが採番したIDとエンティティの組
type Record[E any] struct {
	ID   uint64 `json:"id"`
	Item E      `json:"item"`
}

// Store はIDをキーとするレコードの集合
// 排他制御は行わないため、共有する場合は Shared を使う
type Store[E any] struct {
	records map[uint64]Record[E]
	ids     *IDGenerator
}

// NewStore は空のストアを作成する
func NewStore[E any]() *Store[E] {
	return NewStoreFrom[E](nil)
}

// NewStoreFrom は既存のレコード集合からストアを作成する
// 採番は既存IDの最大値 + 1 から始まる
func NewStoreFrom[E any](records map[uint64]Record[E]) *Store[E] {
	m := make(map[uint64]Record[E], len(records))
	ids := make([]uint64, 0, len(records))
	for id, rec := range records {
		rec.ID = id
		m[id] = rec
		ids = append(ids, id)
	}
	return &Store[E]{
		records: m,
		ids:     NewIDGenerator(SeedFrom(ids...)),
	}
}

// Create は新しいIDを採番してエンティティを追加する
func (s *Store[E]) Create(item E) Record[E] {
	rec := Record[E]{ID: s.ids.Next(), Item: item}
	s.records[rec.ID] = rec
	return rec
}

// Get はIDからレコードを取得する
func (s *Store[E]) Get(id uint64) (Record[E], bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// List はID昇順に並べたレコードにページングを適用して返す
func (s *Store[E]) List(p pagination.Pagination) []Record[E] {
	return s.Filter(nil, p)
}

// Filter は keep が true を返すレコードをID昇順に並べ、ページングを適用して返す
// keep が nil の場合は全件が対象
func (s *Store[E]) Filter(keep func(Record[E]) bool, p pagination.Pagination) []Record[E] {
	out := make([]Record[E], 0, len(s.records))
	for _, rec := range s.records {
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pagination.Apply(out, p)
}

// Update は mutate でエンティティを更新し、更新後のレコードを返す
// 存在しない場合は false を返す
func (s *Store[E]) Update(id uint64, mutate func(*E)) (Record[E], bool) {
	rec, ok := s.records[id]
	if !ok {
		return Record[E]{}, false
	}
	mutate(&rec.Item)
	s.records[id] = rec
	return rec, true
}

// Delete はレコードを削除し、削除前のレコードを返す
func (s *Store[E]) Delete(id uint64) (Record[E], bool) {
	rec, ok := s.records[id]
	if !ok {
		return Record[E]{}, false
	}
	delete(s.records, id)
	return rec, true
}

// Len は保持しているレコード数を返す
func (s *Store[E]) Len() int {
	return len(s.records)
}

// NextID は次に採番されるIDを返す
func (s *Store[E]) NextID() uint64 {
	return s.ids.Peek()
}

// Records は永続化用にレコード集合のコピーを返す
func (s *Store[E]) Records() map[uint64]Record[E] {
	m := make(map[uint64]Record[E], len(s.records))
	for id, rec := range s.records {
		m[id] = rec
	}
	return m
}
