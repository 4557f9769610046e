package memory

import (
	"errors"
	"fmt"
)

// 永続化のエラー種別
// どちらもリトライせず、そのまま呼び出し元へ返す
var (
	ErrFileAccess    = errors.New("永続化ファイルへのアクセスに失敗しました")
	ErrSerialization = errors.New("永続化データのシリアライズに失敗しました")
)

// PersistenceError はスナップショットの読み書きに失敗したことを表す
// errors.Is で ErrFileAccess / ErrSerialization と比較できる
type PersistenceError struct {
	Op   string // load / save
	Path string
	Kind error
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s（%s %s）: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func fileAccessError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Kind: ErrFileAccess, Err: err}
}

func serializationError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Kind: ErrSerialization, Err: err}
}
