package venue

import (
	"time"

	"github.com/sanosuguru/go-venue-booking/internal/pkg/optional"
)

// Venue は会場エンティティを表す
type Venue struct {
	ID          uint64
	Title       string
	Description string
	Address     string
	Published   bool
	Seats       *int // 座席数（未設定可）
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // 論理削除日時
}

// NewVenue は新しい会場を作成する
func NewVenue(title, description, address string, published bool, seats *int) *Venue {
	now := time.Now()
	return &Venue{
		Title:       title,
		Description: description,
		Address:     address,
		Published:   published,
		Seats:       cloneInt(seats),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate は会場の検証を行う
func (v *Venue) Validate() error {
	if v.Title == "" {
		return ErrTitleRequired
	}
	if v.Address == "" {
		return ErrAddressRequired
	}
	if v.Seats != nil && *v.Seats < 0 {
		return ErrInvalidSeats
	}
	return nil
}

// IsDeleted は論理削除済みかを返す
func (v *Venue) IsDeleted() bool {
	return v.DeletedAt != nil
}

// Clone は会場のディープコピーを返す
func (v *Venue) Clone() *Venue {
	c := *v
	c.Seats = cloneInt(v.Seats)
	if v.DeletedAt != nil {
		t := *v.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// Patch は会場の部分更新を表す
// 未指定のフィールドは変更しない
type Patch struct {
	Title       optional.Field[string]
	Description optional.Field[string]
	Address     optional.Field[string]
	Published   optional.Field[bool]
	Seats       optional.Field[int] // null 指定で座席数をクリアする
}

// IsEmpty は更新対象のフィールドが1つもないかを返す
func (p Patch) IsEmpty() bool {
	return !p.Title.IsSet() &&
		!p.Description.IsSet() &&
		!p.Address.IsSet() &&
		!p.Published.IsSet() &&
		!p.Seats.IsSet()
}

// Validate はパッチの検証を行う
func (p Patch) Validate() error {
	if p.Title.IsNull() || p.Description.IsNull() || p.Address.IsNull() || p.Published.IsNull() {
		return ErrFieldNotNullable
	}
	if v, ok := p.Title.Get(); ok && v == "" {
		return ErrTitleRequired
	}
	if v, ok := p.Address.Get(); ok && v == "" {
		return ErrAddressRequired
	}
	if v, ok := p.Seats.Get(); ok && v < 0 {
		return ErrInvalidSeats
	}
	return nil
}

// Apply は指定されたフィールドのみを v に反映し、変更があったかを返す
// 変更があった場合のみ UpdatedAt を更新する
func (p Patch) Apply(v *Venue) bool {
	if p.IsEmpty() {
		return false
	}
	if title, ok := p.Title.Get(); ok {
		v.Title = title
	}
	if description, ok := p.Description.Get(); ok {
		v.Description = description
	}
	if address, ok := p.Address.Get(); ok {
		v.Address = address
	}
	if published, ok := p.Published.Get(); ok {
		v.Published = published
	}
	if p.Seats.IsSet() {
		v.Seats = p.Seats.Ptr()
	}
	v.UpdatedAt = time.Now()
	return true
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
