package timeslot

import "errors"

// Timeslot ドメインのエラー定義
var (
	ErrTimeslotNotFound = errors.New("利用枠が見つかりません")
	ErrTitleRequired    = errors.New("利用枠名は必須です")
	ErrInvalidTimeRange = errors.New("終了時刻は開始時刻より後である必要があります")
	ErrInvalidCapacity  = errors.New("定員は0以上である必要があります")
	ErrTimeslotOverlap  = errors.New("同じ会場の利用枠と時間帯が重複しています")
	ErrFieldNotNullable = errors.New("このフィールドに null は指定できません")
)
