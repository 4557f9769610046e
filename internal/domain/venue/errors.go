package venue

import "errors"

// Venue ドメインのエラー定義
var (
	ErrVenueNotFound     = errors.New("会場が見つかりません")
	ErrTitleRequired     = errors.New("会場名は必須です")
	ErrAddressRequired   = errors.New("住所は必須です")
	ErrInvalidSeats      = errors.New("座席数は0以上である必要があります")
	ErrFieldNotNullable  = errors.New("このフィールドに null は指定できません")
	ErrVenueHasTimeslots = errors.New("利用枠が登録されている会場は削除できません")
)
