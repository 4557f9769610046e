package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// SnapshotFile はレコード集合を JSON ファイルとして保存・復元する
type SnapshotFile[E any] struct {
	path string
}

// NewSnapshotFile は path に保存するスナップショットを作成する
func NewSnapshotFile[E any](path string) *SnapshotFile[E] {
	return &SnapshotFile[E]{path: path}
}

// Path は保存先のパスを返す
func (f *SnapshotFile[E]) Path() string {
	return f.path
}

// Load はスナップショットを読み込む
// ファイルが存在しない場合は空の集合を返す
func (f *SnapshotFile[E]) Load() (map[uint64]Record[E], error) {
	records := make(map[uint64]Record[E])

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return records, nil
		}
		return nil, fileAccessError("load", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, serializationError("load", f.path, err)
	}
	return records, nil
}

// Save はレコード集合をスナップショットとして保存する
// 一時ファイルに書き出してから置き換えるため、途中で失敗しても既存のファイルは壊れない
func (f *SnapshotFile[E]) Save(records map[uint64]Record[E]) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return serializationError("save", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fileAccessError("save", f.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fileAccessError("save", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fileAccessError("save", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fileAccessError("save", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fileAccessError("save", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fileAccessError("save", f.path, err)
	}
	return nil
}
