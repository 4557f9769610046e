package timeslot

import (
	"time"

	"github.com/sanosuguru/go-venue-booking/internal/pkg/optional"
)

// Timeslot は会場の利用枠エンティティを表す
type Timeslot struct {
	ID        uint64
	VenueID   uint64
	Title     string
	StartAt   time.Time
	EndAt     time.Time
	Published bool
	Capacity  *int // 定員（未設定可）
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewTimeslot は新しい利用枠を作成する
func NewTimeslot(venueID uint64, title string, startAt, endAt time.Time, published bool, capacity *int) *Timeslot {
	now := time.Now()
	return &Timeslot{
		VenueID:   venueID,
		Title:     title,
		StartAt:   startAt,
		EndAt:     endAt,
		Published: published,
		Capacity:  cloneInt(capacity),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は利用枠の検証を行う
func (t *Timeslot) Validate() error {
	if t.Title == "" {
		return ErrTitleRequired
	}
	if !t.EndAt.After(t.StartAt) {
		return ErrInvalidTimeRange
	}
	if t.Capacity != nil && *t.Capacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Overlaps は同じ会場で時間帯が重なっているかを返す
// 終了時刻と開始時刻が一致する場合は重なりとみなさない
func (t *Timeslot) Overlaps(other *Timeslot) bool {
	if t.VenueID != other.VenueID {
		return false
	}
	return t.StartAt.Before(other.EndAt) && other.StartAt.Before(t.EndAt)
}

// IsDeleted は論理削除済みかを返す
func (t *Timeslot) IsDeleted() bool {
	return t.DeletedAt != nil
}

// Clone は利用枠のディープコピーを返す
func (t *Timeslot) Clone() *Timeslot {
	c := *t
	c.Capacity = cloneInt(t.Capacity)
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

// Patch は利用枠の部分更新を表す
type Patch struct {
	Title     optional.Field[string]
	StartAt   optional.Field[time.Time]
	EndAt     optional.Field[time.Time]
	Published optional.Field[bool]
	Capacity  optional.Field[int] // null 指定で定員をクリアする
}

// IsEmpty は更新対象のフィールドが1つもないかを返す
func (p Patch) IsEmpty() bool {
	return !p.Title.IsSet() &&
		!p.StartAt.IsSet() &&
		!p.EndAt.IsSet() &&
		!p.Published.IsSet() &&
		!p.Capacity.IsSet()
}

// Validate はパッチ単体の検証を行う
// 開始・終了時刻の前後関係は適用後の利用枠に対して検証する
func (p Patch) Validate() error {
	if p.Title.IsNull() || p.StartAt.IsNull() || p.EndAt.IsNull() || p.Published.IsNull() {
		return ErrFieldNotNullable
	}
	if v, ok := p.Title.Get(); ok && v == "" {
		return ErrTitleRequired
	}
	if v, ok := p.Capacity.Get(); ok && v < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// TouchesWindow は時間帯に関わるフィールドを含むかを返す
func (p Patch) TouchesWindow() bool {
	return p.StartAt.IsSet() || p.EndAt.IsSet()
}

// Apply は指定されたフィールドのみを t に反映し、変更があったかを返す
func (p Patch) Apply(t *Timeslot) bool {
	if p.IsEmpty() {
		return false
	}
	if title, ok := p.Title.Get(); ok {
		t.Title = title
	}
	if startAt, ok := p.StartAt.Get(); ok {
		t.StartAt = startAt
	}
	if endAt, ok := p.EndAt.Get(); ok {
		t.EndAt = endAt
	}
	if published, ok := p.Published.Get(); ok {
		t.Published = published
	}
	if p.Capacity.IsSet() {
		t.Capacity = p.Capacity.Ptr()
	}
	t.UpdatedAt = time.Now()
	return true
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
