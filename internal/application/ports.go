package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// VenueCache は会場の読み取りキャッシュ
type VenueCache interface {
	Get(ctx context.Context, id uint64) (*venue.Venue, error)
	Set(ctx context.Context, v *venue.Venue) error
	Invalidate(ctx context.Context, id uint64) error
	IsMiss(err error) bool
}

// VenueLocker は会場単位の排他制御を提供する
// 返される関数でロックを解放する
type VenueLocker interface {
	LockVenue(ctx context.Context, venueID uint64) (func(context.Context) error, error)
}

// LocalVenueLocker はプロセス内の排他制御を行う VenueLocker
type LocalVenueLocker struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func NewLocalVenueLocker() *LocalVenueLocker {
	return &LocalVenueLocker{locks: make(map[uint64]*sync.Mutex)}
}

func (l *LocalVenueLocker) LockVenue(ctx context.Context, venueID uint64) (func(context.Context) error, error) {
	l.mu.Lock()
	m, ok := l.locks[venueID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[venueID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func(context.Context) error {
		m.Unlock()
		return nil
	}, nil
}

// lockVenue は会場ロックを取得し、解放関数を返す
// 取得できなかった場合はコンテキストのエラー以外を ErrVenueBusy で包む
func lockVenue(ctx context.Context, locker VenueLocker, m *metrics.Metrics, venueID uint64) (func(), error) {
	start := time.Now()
	unlock, err := locker.LockVenue(ctx, venueID)
	m.ObserveLock("acquire", start, err)
	if err != nil {
		logger.Warn("会場ロック取得失敗", zap.Uint64("venue_id", venueID), zap.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrVenueBusy, err)
	}

	return func() {
		start := time.Now()
		// リクエストがキャンセルされてもロックは解放する
		err := unlock(context.WithoutCancel(ctx))
		m.ObserveLock("release", start, err)
		if err != nil {
			logger.Warn("会場ロック解放失敗", zap.Uint64("venue_id", venueID), zap.Error(err))
		}
	}, nil
}
