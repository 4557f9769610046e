package memory

import (
	"sync"

	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
)

// Shared は Store を RWMutex で保護したハンドル
// 読み取りは並行に、書き込みは排他的に実行される
type Shared[E any] struct {
	mu    sync.RWMutex
	store *Store[E]
}

// NewShared は store を共有ハンドルで包む
func NewShared[E any](store *Store[E]) *Shared[E] {
	return &Shared[E]{store: store}
}

func (s *Shared[E]) Create(item E) Record[E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Create(item)
}

func (s *Shared[E]) Get(id uint64) (Record[E], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Get(id)
}

func (s *Shared[E]) List(p pagination.Pagination) []Record[E] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.List(p)
}

// Filter の keep は読み取りロック中に呼ばれる
func (s *Shared[E]) Filter(keep func(Record[E]) bool, p pagination.Pagination) []Record[E] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Filter(keep, p)
}

// Update の mutate は書き込みロック中に呼ばれるため、Shared のメソッドを呼んではならない
func (s *Shared[E]) Update(id uint64, mutate func(*E)) (Record[E], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Update(id, mutate)
}

func (s *Shared[E]) Delete(id uint64) (Record[E], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(id)
}

func (s *Shared[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

func (s *Shared[E]) NextID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.NextID()
}

func (s *Shared[E]) Records() map[uint64]Record[E] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Records()
}
