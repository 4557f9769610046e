package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
)

const timeslotColumns = "id, venue_id, title, start_at, end_at, published, capacity, created_at, updated_at, deleted_at"

// timeslotRow はDBの行を表す構造体
type timeslotRow struct {
	ID        uint64     `db:"id"`
	VenueID   uint64     `db:"venue_id"`
	Title     string     `db:"title"`
	StartAt   time.Time  `db:"start_at"`
	EndAt     time.Time  `db:"end_at"`
	Published bool       `db:"published"`
	Capacity  *int       `db:"capacity"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func newTimeslotRow(t *timeslot.Timeslot) timeslotRow {
	return timeslotRow{
		VenueID:   t.VenueID,
		Title:     t.Title,
		StartAt:   t.StartAt,
		EndAt:     t.EndAt,
		Published: t.Published,
		Capacity:  t.Capacity,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (r *timeslotRow) toEntity() *timeslot.Timeslot {
	return &timeslot.Timeslot{
		ID:        r.ID,
		VenueID:   r.VenueID,
		Title:     r.Title,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Published: r.Published,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		DeletedAt: r.DeletedAt,
	}
}

func timeslotEntities(rows []timeslotRow) []*timeslot.Timeslot {
	slots := make([]*timeslot.Timeslot, len(rows))
	for i := range rows {
		slots[i] = rows[i].toEntity()
	}
	return slots
}

// TimeslotRepository は利用枠リポジトリのPostgreSQL実装
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository はTimeslotRepositoryを作成する
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

const insertTimeslotQuery = `
	INSERT INTO timeslots (venue_id, title, start_at, end_at, published, capacity, created_at, updated_at)
	VALUES (:venue_id, :title, :start_at, :end_at, :published, :capacity, :created_at, :updated_at)
	RETURNING id
`

// Create は新しい利用枠を作成する
func (r *TimeslotRepository) Create(ctx context.Context, t *timeslot.Timeslot) error {
	query, args, err := sqlx.Named(insertTimeslotQuery, newTimeslotRow(t))
	if err != nil {
		return fmt.Errorf("利用枠作成クエリの組み立てに失敗しました: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&t.ID); err != nil {
		return fmt.Errorf("利用枠作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDから利用枠を取得する
func (r *TimeslotRepository) GetByID(ctx context.Context, id uint64) (*timeslot.Timeslot, error) {
	query := `SELECT ` + timeslotColumns + ` FROM timeslots WHERE id = $1 AND deleted_at IS NULL`

	var row timeslotRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, timeslot.ErrTimeslotNotFound
		}
		return nil, fmt.Errorf("利用枠取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は利用枠一覧をID昇順で取得する
func (r *TimeslotRepository) List(ctx context.Context, filter timeslot.ListFilter) ([]*timeslot.Timeslot, error) {
	query := listQuery("timeslots", timeslotColumns, filter.IncludeDeleted)

	var rows []timeslotRow
	err := r.db.SelectContext(ctx, &rows, query, filter.Pagination.SQLLimit(), filter.Pagination.SQLOffset())
	if err != nil {
		return nil, fmt.Errorf("利用枠一覧取得に失敗しました: %w", err)
	}
	return timeslotEntities(rows), nil
}

// ListByVenue は会場の利用枠を開始時刻順に取得する
func (r *TimeslotRepository) ListByVenue(ctx context.Context, venueID uint64) ([]*timeslot.Timeslot, error) {
	query := `
		SELECT ` + timeslotColumns + `
		FROM timeslots
		WHERE venue_id = $1 AND deleted_at IS NULL
		ORDER BY start_at ASC, id ASC
	`

	var rows []timeslotRow
	if err := r.db.SelectContext(ctx, &rows, query, venueID); err != nil {
		return nil, fmt.Errorf("会場の利用枠取得に失敗しました: %w", err)
	}
	return timeslotEntities(rows), nil
}

// timeslotUpdateQuery はパッチから UPDATE 文を組み立てる。更新対象がなければ ok=false
func timeslotUpdateQuery(id uint64, patch timeslot.Patch, now time.Time) (query string, args []any, ok bool) {
	b := newUpdateBuilder("timeslots")
	if v, set := patch.Title.Get(); set {
		b.set("title", v)
	}
	if v, set := patch.StartAt.Get(); set {
		b.set("start_at", v)
	}
	if v, set := patch.EndAt.Get(); set {
		b.set("end_at", v)
	}
	if v, set := patch.Published.Get(); set {
		b.set("published", v)
	}
	if patch.Capacity.IsSet() {
		b.set("capacity", patch.Capacity.Ptr())
	}
	if b.empty() {
		return "", nil, false
	}
	query, args = b.build(id, now, timeslotColumns)
	return query, args, true
}

// Update はパッチで指定された列のみを更新する
func (r *TimeslotRepository) Update(ctx context.Context, id uint64, patch timeslot.Patch) (*timeslot.Timeslot, error) {
	query, args, ok := timeslotUpdateQuery(id, patch, time.Now())
	if !ok {
		return r.GetByID(ctx, id)
	}

	var row timeslotRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, timeslot.ErrTimeslotNotFound
		}
		return nil, fmt.Errorf("利用枠更新に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// Delete は利用枠を論理削除する
func (r *TimeslotRepository) Delete(ctx context.Context, id uint64) (*timeslot.Timeslot, error) {
	var row timeslotRow
	if err := r.db.GetContext(ctx, &row, softDeleteQuery("timeslots", timeslotColumns), time.Now(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, timeslot.ErrTimeslotNotFound
		}
		return nil, fmt.Errorf("利用枠削除に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

var _ timeslot.Repository = (*TimeslotRepository)(nil)
