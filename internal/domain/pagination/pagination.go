package pagination

import (
	"errors"
	"math"
	"strconv"
)

// ErrInvalidPagination は offset / limit が符号なし整数として解釈できない場合のエラー
var ErrInvalidPagination = errors.New("offset と limit は0以上の整数で指定してください")

// Pagination は一覧取得時の offset / limit を表す
// Limit が nil の場合は上限なし
type Pagination struct {
	Offset uint64
	Limit  *uint64
}

// Unbounded は offset 0・上限なしのページングを返す
func Unbounded() Pagination {
	return Pagination{}
}

// New は offset と limit を指定してページングを作成する
func New(offset, limit uint64) Pagination {
	return Pagination{Offset: offset, Limit: &limit}
}

// HasLimit は上限が指定されているかを返す
func (p Pagination) HasLimit() bool {
	return p.Limit != nil
}

// Window は長さ n の列に対する [start, end) を返す
func (p Pagination) Window(n int) (start, end int) {
	size := uint64(n)
	if p.Offset >= size {
		return n, n
	}
	start = int(p.Offset)
	end = n
	if p.Limit != nil && *p.Limit < size-p.Offset {
		end = start + int(*p.Limit)
	}
	return start, end
}

// Apply は items に offset / limit を適用した部分列を返す
// offset が長さを超える場合は空の列を返す
func Apply[T any](items []T, p Pagination) []T {
	start, end := p.Window(len(items))
	return items[start:end]
}

// SQLLimit は SQL の LIMIT 句に渡す値を返す。上限なしの場合は nil
func (p Pagination) SQLLimit() any {
	if p.Limit == nil {
		return nil
	}
	if *p.Limit > math.MaxInt64 {
		return int64(math.MaxInt64)
	}
	return int64(*p.Limit)
}

// SQLOffset は SQL の OFFSET 句に渡す値を返す
func (p Pagination) SQLOffset() int64 {
	if p.Offset > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(p.Offset)
}

// Parse はクエリパラメータの文字列からページングを作成する
// 空文字はデフォルト値（offset 0・上限なし）として扱う
func Parse(offset, limit string) (Pagination, error) {
	var p Pagination
	if offset != "" {
		v, err := strconv.ParseUint(offset, 10, 64)
		if err != nil {
			return Pagination{}, ErrInvalidPagination
		}
		p.Offset = v
	}
	if limit != "" {
		v, err := strconv.ParseUint(limit, 10, 64)
		if err != nil {
			return Pagination{}, ErrInvalidPagination
		}
		p.Limit = &v
	}
	return p, nil
}
