package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
)

// timeslotRow はストアに保持する利用枠の値
type timeslotRow struct {
	VenueID   uint64    `json:"venue_id"`
	Title     string    `json:"title"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Published bool      `json:"published"`
	Capacity  *int      `json:"capacity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r timeslotRow) toEntity(id uint64) *timeslot.Timeslot {
	return &timeslot.Timeslot{
		ID:        id,
		VenueID:   r.VenueID,
		Title:     r.Title,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Published: r.Published,
		Capacity:  cloneInt(r.Capacity),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newTimeslotRow(t *timeslot.Timeslot) timeslotRow {
	return timeslotRow{
		VenueID:   t.VenueID,
		Title:     t.Title,
		StartAt:   t.StartAt,
		EndAt:     t.EndAt,
		Published: t.Published,
		Capacity:  cloneInt(t.Capacity),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TimeslotRepository は利用枠リポジトリのインメモリ実装
type TimeslotRepository struct {
	store    *Shared[timeslotRow]
	snapshot *SnapshotFile[timeslotRow]
}

// NewTimeslotRepository は永続化なしの TimeslotRepository を作成する
func NewTimeslotRepository() *TimeslotRepository {
	return &TimeslotRepository{store: NewShared(NewStore[timeslotRow]())}
}

// LoadTimeslotRepository は path のスナップショットから TimeslotRepository を復元する
func LoadTimeslotRepository(path string) (*TimeslotRepository, error) {
	snapshot := NewSnapshotFile[timeslotRow](path)
	records, err := snapshot.Load()
	if err != nil {
		return nil, err
	}
	return &TimeslotRepository{
		store:    NewShared(NewStoreFrom(records)),
		snapshot: snapshot,
	}, nil
}

func (r *TimeslotRepository) Create(ctx context.Context, t *timeslot.Timeslot) error {
	rec := r.store.Create(newTimeslotRow(t))
	t.ID = rec.ID
	return nil
}

func (r *TimeslotRepository) GetByID(ctx context.Context, id uint64) (*timeslot.Timeslot, error) {
	rec, ok := r.store.Get(id)
	if !ok {
		return nil, timeslot.ErrTimeslotNotFound
	}
	return rec.Item.toEntity(rec.ID), nil
}

func (r *TimeslotRepository) List(ctx context.Context, filter timeslot.ListFilter) ([]*timeslot.Timeslot, error) {
	return r.toEntities(r.store.List(filter.Pagination)), nil
}

// ListByVenue は会場に紐づく利用枠を開始時刻順に取得する
func (r *TimeslotRepository) ListByVenue(ctx context.Context, venueID uint64) ([]*timeslot.Timeslot, error) {
	recs := r.store.Filter(func(rec Record[timeslotRow]) bool {
		return rec.Item.VenueID == venueID
	}, pagination.Unbounded())

	slots := r.toEntities(recs)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartAt.Before(slots[j].StartAt)
	})
	return slots, nil
}

func (r *TimeslotRepository) Update(ctx context.Context, id uint64, patch timeslot.Patch) (*timeslot.Timeslot, error) {
	rec, ok := r.store.Update(id, func(row *timeslotRow) {
		t := row.toEntity(id)
		if patch.Apply(t) {
			*row = newTimeslotRow(t)
		}
	})
	if !ok {
		return nil, timeslot.ErrTimeslotNotFound
	}
	return rec.Item.toEntity(rec.ID), nil
}

func (r *TimeslotRepository) Delete(ctx context.Context, id uint64) (*timeslot.Timeslot, error) {
	rec, ok := r.store.Delete(id)
	if !ok {
		return nil, timeslot.ErrTimeslotNotFound
	}
	return rec.Item.toEntity(rec.ID), nil
}

func (r *TimeslotRepository) Len() int {
	return r.store.Len()
}

// Flush は現在の利用枠をスナップショットへ保存する
func (r *TimeslotRepository) Flush(ctx context.Context) error {
	if r.snapshot == nil {
		return nil
	}
	return r.snapshot.Save(r.store.Records())
}

func (r *TimeslotRepository) toEntities(recs []Record[timeslotRow]) []*timeslot.Timeslot {
	slots := make([]*timeslot.Timeslot, len(recs))
	for i, rec := range recs {
		slots[i] = rec.Item.toEntity(rec.ID)
	}
	return slots
}

var _ timeslot.Repository = (*TimeslotRepository)(nil)
