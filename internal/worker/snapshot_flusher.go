package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// Flusher はストアの内容をスナップショットへ書き出すインターフェース
type Flusher interface {
	Flush(ctx context.Context) error
}

// SnapshotFlusher はインメモリストアを定期的にスナップショットへ保存するワーカー
type SnapshotFlusher struct {
	flushers []Flusher
	interval time.Duration
	metrics  *metrics.Metrics
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewSnapshotFlusher は新しいフラッシャーを作成
func NewSnapshotFlusher(interval time.Duration, m *metrics.Metrics, flushers ...Flusher) *SnapshotFlusher {
	return &SnapshotFlusher{
		flushers: flushers,
		interval: interval,
		metrics:  m,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はフラッシャーを開始する。停止するまでブロックする
func (f *SnapshotFlusher) Start(ctx context.Context) {
	logger.Info("スナップショット保存ワーカー開始",
		zap.Duration("interval", f.interval),
		zap.Int("stores", len(f.flushers)),
	)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	defer close(f.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("スナップショット保存ワーカー停止（コンテキストキャンセル）")
			return
		case <-f.stopCh:
			logger.Info("スナップショット保存ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			if err := f.FlushAll(ctx); err != nil {
				logger.Error("スナップショットの保存に失敗", zap.Error(err))
			}
		}
	}
}

// Stop はフラッシャーを停止し、最後にもう一度保存する
func (f *SnapshotFlusher) Stop(ctx context.Context) error {
	f.stopOnce.Do(func() { close(f.stopCh) })
	select {
	case <-f.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	return f.FlushAll(ctx)
}

// FlushAll はすべてのストアを保存する。失敗したストアがあっても残りは保存を続ける
func (f *SnapshotFlusher) FlushAll(ctx context.Context) error {
	start := time.Now()

	var result *multierror.Error
	for _, fl := range f.flushers {
		if err := fl.Flush(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	err := result.ErrorOrNil()

	f.metrics.ObserveSnapshot(start, err)
	if err == nil {
		logger.Debug("スナップショットを保存", zap.Duration("elapsed", time.Since(start)))
	}
	return err
}
