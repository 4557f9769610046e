package venue

import (
	"context"

	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
)

// ListFilter は会場一覧の取得条件
type ListFilter struct {
	Pagination     pagination.Pagination
	IncludeDeleted bool // 論理削除済みの会場も含める
}

// Repository は会場リポジトリのインターフェース
type Repository interface {
	// Create は新しい会場を作成し、採番したIDを設定する
	Create(ctx context.Context, v *Venue) error

	// GetByID はIDから会場を取得する
	GetByID(ctx context.Context, id uint64) (*Venue, error)

	// List は会場一覧を取得する
	List(ctx context.Context, filter ListFilter) ([]*Venue, error)

	// Update はパッチで指定されたフィールドのみを更新する
	Update(ctx context.Context, id uint64, patch Patch) (*Venue, error)

	// Delete は会場を削除し、削除前の会場を返す
	Delete(ctx context.Context, id uint64) (*Venue, error)
}
