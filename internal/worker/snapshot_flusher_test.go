package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/memory"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// MockFlusher はFlusherのモック
type MockFlusher struct {
	mock.Mock
}

func (m *MockFlusher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestNewSnapshotFlusher(t *testing.T) {
	f := NewSnapshotFlusher(time.Minute, nil, new(MockFlusher))

	assert.NotNil(t, f)
	assert.Equal(t, time.Minute, f.interval)
	assert.Len(t, f.flushers, 1)
	assert.NotNil(t, f.stopCh)
	assert.NotNil(t, f.doneCh)
}

func TestSnapshotFlusher_FlushAll(t *testing.T) {
	t.Run("すべてのストアを保存する", func(t *testing.T) {
		m := metrics.NewWithRegistry(prometheus.NewRegistry())
		a, b := new(MockFlusher), new(MockFlusher)
		a.On("Flush", mock.Anything).Return(nil).Once()
		b.On("Flush", mock.Anything).Return(nil).Once()

		err := NewSnapshotFlusher(time.Minute, m, a, b).FlushAll(context.Background())

		require.NoError(t, err)
		a.AssertExpectations(t)
		b.AssertExpectations(t)
		assert.Equal(t, 1, testutil.CollectAndCount(m.SnapshotDuration))
	})

	t.Run("失敗しても残りのストアを保存しエラーをまとめて返す", func(t *testing.T) {
		a, b := new(MockFlusher), new(MockFlusher)
		a.On("Flush", mock.Anything).Return(errors.New("disk full")).Once()
		b.On("Flush", mock.Anything).Return(nil).Once()

		err := NewSnapshotFlusher(time.Minute, nil, a, b).FlushAll(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		b.AssertExpectations(t)
	})

	t.Run("保存エラーの種別を保持する", func(t *testing.T) {
		a := new(MockFlusher)
		a.On("Flush", mock.Anything).Return(memory.ErrFileAccess).Once()

		err := NewSnapshotFlusher(time.Minute, nil, a).FlushAll(context.Background())

		assert.ErrorIs(t, err, memory.ErrFileAccess)
	})
}

// countingFlusher は保存回数を数える
type countingFlusher struct {
	calls atomic.Int64
}

func (c *countingFlusher) Flush(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestSnapshotFlusher_StartStop(t *testing.T) {
	fl := &countingFlusher{}

	f := NewSnapshotFlusher(10*time.Millisecond, nil, fl)
	go f.Start(context.Background())

	assert.Eventually(t, func() bool {
		return fl.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, f.Stop(context.Background()))
	calls := fl.calls.Load()

	// 停止後は保存しない
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, fl.calls.Load())
}

func TestSnapshotFlusher_StopFlushesOnce(t *testing.T) {
	fl := new(MockFlusher)
	fl.On("Flush", mock.Anything).Return(nil).Once()

	f := NewSnapshotFlusher(time.Hour, nil, fl)
	go f.Start(context.Background())

	require.NoError(t, f.Stop(context.Background()))
	fl.AssertNumberOfCalls(t, "Flush", 1)
}

func TestSnapshotFlusher_ContextCancel(t *testing.T) {
	f := NewSnapshotFlusher(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flusher did not stop on context cancel")
	}
}

func TestSnapshotFlusher_WithMemoryRepository(t *testing.T) {
	path := t.TempDir() + "/venues.json"
	repo, err := memory.LoadVenueRepository(path)
	require.NoError(t, err)

	require.NoError(t, NewSnapshotFlusher(time.Minute, nil, repo).FlushAll(context.Background()))
	assert.FileExists(t, path)
}
