package postgres

import (
	"fmt"
	"strings"
	"time"
)

// updateBuilder はパッチで指定された列だけを更新する UPDATE 文を組み立てる
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdateBuilder(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

// set は列と値を追加する。nil ポインタは NULL として書き込まれる
func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build は論理削除されていない行のみを対象とする UPDATE 文を返す
func (b *updateBuilder) build(id uint64, now time.Time, returning string) (string, []any) {
	b.set("updated_at", now)
	args := append(b.args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		b.table, strings.Join(b.sets, ", "), len(args), returning,
	)
	return query, args
}

// listQuery は一覧取得の SELECT 文を返す
// LIMIT に NULL を渡すと上限なしになる
func listQuery(table, columns string, includeDeleted bool) string {
	where := " WHERE deleted_at IS NULL"
	if includeDeleted {
		where = ""
	}
	return fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id ASC LIMIT $1 OFFSET $2", columns, table, where)
}

// softDeleteQuery は論理削除を行い対象行を返す UPDATE 文を返す
func softDeleteQuery(table, returning string) string {
	return fmt.Sprintf(
		"UPDATE %s SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL RETURNING %s",
		table, returning,
	)
}
