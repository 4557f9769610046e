package memory

import (
	"context"
	"time"

	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

// venueRow はストアに保持する会場の値
type venueRow struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Published   bool      `json:"published"`
	Seats       *int      `json:"seats,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toEntity は venueRow を Venue エンティティに変換する
func (r venueRow) toEntity(id uint64) *venue.Venue {
	return &venue.Venue{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Address:     r.Address,
		Published:   r.Published,
		Seats:       cloneInt(r.Seats),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newVenueRow(v *venue.Venue) venueRow {
	return venueRow{
		Title:       v.Title,
		Description: v.Description,
		Address:     v.Address,
		Published:   v.Published,
		Seats:       cloneInt(v.Seats),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// VenueRepository は会場リポジトリのインメモリ実装
// 削除はレコードを取り除く（論理削除は行わない）
type VenueRepository struct {
	store    *Shared[venueRow]
	snapshot *SnapshotFile[venueRow]
}

// NewVenueRepository は永続化なしの VenueRepository を作成する
func NewVenueRepository() *VenueRepository {
	return &VenueRepository{store: NewShared(NewStore[venueRow]())}
}

// LoadVenueRepository は path のスナップショットから VenueRepository を復元する
// Flush で同じファイルへ保存する
func LoadVenueRepository(path string) (*VenueRepository, error) {
	snapshot := NewSnapshotFile[venueRow](path)
	records, err := snapshot.Load()
	if err != nil {
		return nil, err
	}
	return &VenueRepository{
		store:    NewShared(NewStoreFrom(records)),
		snapshot: snapshot,
	}, nil
}

// Create は新しい会場を作成する
func (r *VenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	rec := r.store.Create(newVenueRow(v))
	v.ID = rec.ID
	return nil
}

// GetByID はIDから会場を取得する
func (r *VenueRepository) GetByID(ctx context.Context, id uint64) (*venue.Venue, error) {
	rec, ok := r.store.Get(id)
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	return rec.Item.toEntity(rec.ID), nil
}

// List は会場一覧をID順に取得する
func (r *VenueRepository) List(ctx context.Context, filter venue.ListFilter) ([]*venue.Venue, error) {
	recs := r.store.List(filter.Pagination)
	venues := make([]*venue.Venue, len(recs))
	for i, rec := range recs {
		venues[i] = rec.Item.toEntity(rec.ID)
	}
	return venues, nil
}

// Update はパッチで指定されたフィールドのみを更新する
func (r *VenueRepository) Update(ctx context.Context, id uint64, patch venue.Patch) (*venue.Venue, error) {
	rec, ok := r.store.Update(id, func(row *venueRow) {
		v := row.toEntity(id)
		if patch.Apply(v) {
			*row = newVenueRow(v)
		}
	})
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	return rec.Item.toEntity(rec.ID), nil
}

// Delete は会場を削除し、削除前の会場を返す
func (r *VenueRepository) Delete(ctx context.Context, id uint64) (*venue.Venue, error) {
	rec, ok := r.store.Delete(id)
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	return rec.Item.toEntity(rec.ID), nil
}

// Len は保持している会場数を返す
func (r *VenueRepository) Len() int {
	return r.store.Len()
}

// NextID は次に採番される会場IDを返す
func (r *VenueRepository) NextID() uint64 {
	return r.store.NextID()
}

// Flush は現在の会場をスナップショットへ保存する
// スナップショットが設定されていない場合は何もしない
func (r *VenueRepository) Flush(ctx context.Context) error {
	if r.snapshot == nil {
		return nil
	}
	return r.snapshot.Save(r.store.Records())
}

// インターフェースを満たしているか確認
var _ venue.Repository = (*VenueRepository)(nil)

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
