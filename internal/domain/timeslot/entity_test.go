package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-venue-booking/internal/pkg/optional"
)

var base = time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC)

func TestNewTimeslot(t *testing.T) {
	capacity := 50
	ts := NewTimeslot(7, "夜の部", base, base.Add(3*time.Hour), true, &capacity)

	assert.Equal(t, uint64(7), ts.VenueID)
	assert.Equal(t, "夜の部", ts.Title)
	assert.Equal(t, base, ts.StartAt)
	assert.Equal(t, base.Add(3*time.Hour), ts.EndAt)
	assert.True(t, ts.Published)
	require.NotNil(t, ts.Capacity)
	assert.NotSame(t, &capacity, ts.Capacity)
	assert.NotZero(t, ts.CreatedAt)
}

func TestTimeslot_Validate(t *testing.T) {
	negative := -1
	tests := []struct {
		name        string
		ts          *Timeslot
		expectedErr error
	}{
		{"有効な利用枠", &Timeslot{Title: "昼の部", StartAt: base, EndAt: base.Add(time.Hour)}, nil},
		{"利用枠名が空", &Timeslot{StartAt: base, EndAt: base.Add(time.Hour)}, ErrTitleRequired},
		{"終了が開始より前", &Timeslot{Title: "昼の部", StartAt: base, EndAt: base.Add(-time.Hour)}, ErrInvalidTimeRange},
		{"終了と開始が同時刻", &Timeslot{Title: "昼の部", StartAt: base, EndAt: base}, ErrInvalidTimeRange},
		{"定員が負", &Timeslot{Title: "昼の部", StartAt: base, EndAt: base.Add(time.Hour), Capacity: &negative}, ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ts.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimeslot_Overlaps(t *testing.T) {
	slot := &Timeslot{VenueID: 1, StartAt: base, EndAt: base.Add(2 * time.Hour)}

	tests := []struct {
		name     string
		other    *Timeslot
		expected bool
	}{
		{"完全に内包", &Timeslot{VenueID: 1, StartAt: base.Add(30 * time.Minute), EndAt: base.Add(time.Hour)}, true},
		{"後半が重複", &Timeslot{VenueID: 1, StartAt: base.Add(time.Hour), EndAt: base.Add(3 * time.Hour)}, true},
		{"終了と開始が接する", &Timeslot{VenueID: 1, StartAt: base.Add(2 * time.Hour), EndAt: base.Add(3 * time.Hour)}, false},
		{"前に離れている", &Timeslot{VenueID: 1, StartAt: base.Add(-3 * time.Hour), EndAt: base.Add(-time.Hour)}, false},
		{"別の会場", &Timeslot{VenueID: 2, StartAt: base, EndAt: base.Add(2 * time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slot.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(slot))
		})
	}
}

func TestPatch_Apply(t *testing.T) {
	capacity := 30
	orig := func() *Timeslot {
		return &Timeslot{ID: 1, VenueID: 1, Title: "昼の部", StartAt: base, EndAt: base.Add(time.Hour), Capacity: &capacity}
	}

	t.Run("空のパッチは何も変更しない", func(t *testing.T) {
		ts := orig()
		before := *ts
		assert.False(t, Patch{}.Apply(ts))
		assert.Equal(t, before, *ts)
	})

	t.Run("終了時刻のみ変更する", func(t *testing.T) {
		ts := orig()
		p := Patch{EndAt: optional.Of(base.Add(4 * time.Hour))}
		assert.True(t, p.TouchesWindow())
		assert.True(t, p.Apply(ts))
		assert.Equal(t, base, ts.StartAt)
		assert.Equal(t, base.Add(4*time.Hour), ts.EndAt)
		assert.Equal(t, "昼の部", ts.Title)
	})

	t.Run("nullで定員をクリアする", func(t *testing.T) {
		ts := orig()
		Patch{Capacity: optional.Null[int]()}.Apply(ts)
		assert.Nil(t, ts.Capacity)
	})
}

func TestPatch_Validate(t *testing.T) {
	assert.NoError(t, Patch{}.Validate())
	assert.ErrorIs(t, Patch{StartAt: optional.Null[time.Time]()}.Validate(), ErrFieldNotNullable)
	assert.ErrorIs(t, Patch{Title: optional.Of("")}.Validate(), ErrTitleRequired)
	assert.ErrorIs(t, Patch{Capacity: optional.Of(-1)}.Validate(), ErrInvalidCapacity)
	assert.NoError(t, Patch{Capacity: optional.Null[int]()}.Validate())
}
