package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.json")
	snapshot := NewSnapshotFile[item](path)

	records := map[uint64]Record[item]{
		0: {ID: 0, Item: item{Title: "A"}},
		7: {ID: 7, Item: item{Title: "G", Published: true}},
	}
	require.NoError(t, snapshot.Save(records))

	loaded, err := snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	// 復元したストアは最大ID+1から採番する
	s := NewStoreFrom(loaded)
	assert.Equal(t, uint64(8), s.Create(item{Title: "H"}).ID)
}

func TestSnapshotFile_Load_MissingFile(t *testing.T) {
	snapshot := NewSnapshotFile[item](filepath.Join(t.TempDir(), "none.json"))

	records, err := snapshot.Load()

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSnapshotFile_Load_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	records, err := NewSnapshotFile[item](path).Load()

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSnapshotFile_Load_SerializationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewSnapshotFile[item](path).Load()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
	assert.NotErrorIs(t, err, ErrFileAccess)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load", pe.Op)
	assert.Equal(t, path, pe.Path)
}

func TestSnapshotFile_Load_FileAccessError(t *testing.T) {
	// ディレクトリはファイルとして読めない
	dir := t.TempDir()

	_, err := NewSnapshotFile[item](dir).Load()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestSnapshotFile_Save_SerializationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "func.json")
	snapshot := NewSnapshotFile[func()](path)

	err := snapshot.Save(map[uint64]Record[func()]{0: {Item: func() {}}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSnapshotFile_Save_FileAccessError(t *testing.T) {
	// 親パスが通常ファイルの場合はディレクトリを作成できない
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	err := NewSnapshotFile[item](filepath.Join(parent, "venues.json")).Save(map[uint64]Record[item]{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestSnapshotFile_Save_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venues.json")
	snapshot := NewSnapshotFile[item](path)

	require.NoError(t, snapshot.Save(map[uint64]Record[item]{0: {Item: item{Title: "旧"}}}))
	require.NoError(t, snapshot.Save(map[uint64]Record[item]{1: {ID: 1, Item: item{Title: "新"}}}))

	loaded, err := snapshot.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "新", loaded[1].Item.Title)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "一時ファイルが残っていないこと")
}
