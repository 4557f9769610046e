package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	items := []int{0, 1, 2, 3}

	tests := []struct {
		name     string
		p        Pagination
		expected []int
	}{
		{"上限なし", Unbounded(), []int{0, 1, 2, 3}},
		{"offset1・limit2", New(1, 2), []int{1, 2}},
		{"limitが残り件数を超える", New(2, 10), []int{2, 3}},
		{"offsetが長さと同じ", New(4, 1), []int{}},
		{"offsetが長さを超える", New(100, 1), []int{}},
		{"limit0", New(0, 0), []int{}},
		{"offsetのみ", Pagination{Offset: 3}, []int{3}},
		{"limitが最大値", New(1, math.MaxUint64), []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Apply(items, tt.p))
		})
	}
}

func TestApply_Empty(t *testing.T) {
	assert.Empty(t, Apply([]string{}, New(0, 5)))
	assert.Empty(t, Apply[string](nil, Unbounded()))
}

func TestParse(t *testing.T) {
	t.Run("未指定はデフォルト", func(t *testing.T) {
		p, err := Parse("", "")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), p.Offset)
		assert.False(t, p.HasLimit())
	})

	t.Run("両方指定", func(t *testing.T) {
		p, err := Parse("5", "10")
		require.NoError(t, err)
		assert.Equal(t, uint64(5), p.Offset)
		require.True(t, p.HasLimit())
		assert.Equal(t, uint64(10), *p.Limit)
	})

	t.Run("負の値はエラー", func(t *testing.T) {
		_, err := Parse("-1", "")
		assert.ErrorIs(t, err, ErrInvalidPagination)
	})

	t.Run("数値以外はエラー", func(t *testing.T) {
		_, err := Parse("", "ten")
		assert.ErrorIs(t, err, ErrInvalidPagination)
	})
}

func TestSQLValues(t *testing.T) {
	assert.Nil(t, Unbounded().SQLLimit())
	assert.Equal(t, int64(20), New(3, 20).SQLLimit())
	assert.Equal(t, int64(3), New(3, 20).SQLOffset())
	assert.Equal(t, int64(math.MaxInt64), New(0, math.MaxUint64).SQLLimit())
}
