package optional

import (
	"bytes"
	"encoding/json"
)

// Field は部分更新（PATCH）の1フィールドを表す
// 「未指定」「null 指定」「値指定」の3状態を区別する
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Unset は未指定のフィールドを返す
func Unset[T any]() Field[T] {
	return Field[T]{}
}

// Null は明示的に null が指定されたフィールドを返す
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Of は値が指定されたフィールドを返す
func Of[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// IsSet はフィールドが指定されているか（null を含む）を返す
func (f Field[T]) IsSet() bool {
	return f.present
}

// IsNull は明示的に null が指定されているかを返す
func (f Field[T]) IsNull() bool {
	return f.present && f.null
}

// Get は指定された値を返す。未指定または null の場合は false
func (f Field[T]) Get() (T, bool) {
	if f.present && !f.null {
		return f.value, true
	}
	var zero T
	return zero, false
}

// Ptr は値をポインタで返す。未指定または null の場合は nil
func (f Field[T]) Ptr() *T {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

// UnmarshalJSON はキーが存在する場合のみ呼ばれるため、呼ばれた時点で指定済みとなる
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Of(v)
	return nil
}

// MarshalJSON は未指定と null をどちらも null として出力する
func (f Field[T]) MarshalJSON() ([]byte, error) {
	v, ok := f.Get()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
