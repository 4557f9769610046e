package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

const venueColumns = "id, title, description, address, published, seats, created_at, updated_at, deleted_at"

// venueRow はDBの行を表す構造体
type venueRow struct {
	ID          uint64     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Address     string     `db:"address"`
	Published   bool       `db:"published"`
	Seats       *int       `db:"seats"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

func newVenueRow(v *venue.Venue) venueRow {
	return venueRow{
		Title:       v.Title,
		Description: v.Description,
		Address:     v.Address,
		Published:   v.Published,
		Seats:       v.Seats,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// toEntity はvenueRowをVenueエンティティに変換する
func (r *venueRow) toEntity() *venue.Venue {
	return &venue.Venue{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Address:     r.Address,
		Published:   r.Published,
		Seats:       r.Seats,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DeletedAt:   r.DeletedAt,
	}
}

// VenueRepository は会場リポジトリのPostgreSQL実装
// 削除は deleted_at による論理削除
type VenueRepository struct {
	db *sqlx.DB
}

// NewVenueRepository はVenueRepositoryを作成する
func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const insertVenueQuery = `
	INSERT INTO venues (title, description, address, published, seats, created_at, updated_at)
	VALUES (:title, :description, :address, :published, :seats, :created_at, :updated_at)
	RETURNING id
`

// Create は新しい会場を作成する
func (r *VenueRepository) Create(ctx context.Context, v *venue.Venue) error {
	query, args, err := sqlx.Named(insertVenueQuery, newVenueRow(v))
	if err != nil {
		return fmt.Errorf("会場作成クエリの組み立てに失敗しました: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&v.ID); err != nil {
		return fmt.Errorf("会場作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから会場を取得する。論理削除済みの会場は見つからない扱い
func (r *VenueRepository) GetByID(ctx context.Context, id uint64) (*venue.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1 AND deleted_at IS NULL`

	var row venueRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は会場一覧をID昇順で取得する
func (r *VenueRepository) List(ctx context.Context, filter venue.ListFilter) ([]*venue.Venue, error) {
	query := listQuery("venues", venueColumns, filter.IncludeDeleted)

	var rows []venueRow
	err := r.db.SelectContext(ctx, &rows, query, filter.Pagination.SQLLimit(), filter.Pagination.SQLOffset())
	if err != nil {
		return nil, fmt.Errorf("会場一覧取得に失敗しました: %w", err)
	}

	venues := make([]*venue.Venue, len(rows))
	for i := range rows {
		venues[i] = rows[i].toEntity()
	}
	return venues, nil
}

// venueUpdateQuery はパッチから UPDATE 文を組み立てる。更新対象がなければ ok=false
func venueUpdateQuery(id uint64, patch venue.Patch, now time.Time) (query string, args []any, ok bool) {
	b := newUpdateBuilder("venues")
	if v, set := patch.Title.Get(); set {
		b.set("title", v)
	}
	if v, set := patch.Description.Get(); set {
		b.set("description", v)
	}
	if v, set := patch.Address.Get(); set {
		b.set("address", v)
	}
	if v, set := patch.Published.Get(); set {
		b.set("published", v)
	}
	if patch.Seats.IsSet() {
		b.set("seats", patch.Seats.Ptr())
	}
	if b.empty() {
		return "", nil, false
	}
	query, args = b.build(id, now, venueColumns)
	return query, args, true
}

// Update はパッチで指定された列のみを更新する
func (r *VenueRepository) Update(ctx context.Context, id uint64, patch venue.Patch) (*venue.Venue, error) {
	query, args, ok := venueUpdateQuery(id, patch, time.Now())
	if !ok {
		return r.GetByID(ctx, id)
	}

	var row venueRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場更新に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// Delete は会場を論理削除し、削除日時を設定した会場を返す
func (r *VenueRepository) Delete(ctx context.Context, id uint64) (*venue.Venue, error) {
	var row venueRow
	if err := r.db.GetContext(ctx, &row, softDeleteQuery("venues", venueColumns), time.Now(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("会場削除に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// インターフェースを満たしているか確認
var _ venue.Repository = (*VenueRepository)(nil)
