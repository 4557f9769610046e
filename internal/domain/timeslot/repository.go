package timeslot

import (
	"context"

	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
)

// ListFilter は利用枠一覧の取得条件
type ListFilter struct {
	Pagination     pagination.Pagination
	IncludeDeleted bool
}

// Repository は利用枠リポジトリのインターフェース
type Repository interface {
	// Create は新しい利用枠を作成し、採番したIDを設定する
	Create(ctx context.Context, t *Timeslot) error

	// GetByID はIDから利用枠を取得する
	GetByID(ctx context.Context, id uint64) (*Timeslot, error)

	// List は利用枠一覧を取得する
	List(ctx context.Context, filter ListFilter) ([]*Timeslot, error)

	// ListByVenue は会場に紐づく利用枠を開始時刻順に取得する（論理削除済みは除く）
	ListByVenue(ctx context.Context, venueID uint64) ([]*Timeslot, error)

	// Update はパッチで指定されたフィールドのみを更新する
	Update(ctx context.Context, id uint64, patch Patch) (*Timeslot, error)

	// Delete は利用枠を削除し、削除前の利用枠を返す
	Delete(ctx context.Context, id uint64) (*Timeslot, error)
}
