package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

// VenueLockOptions は会場ロックの取得条件
type VenueLockOptions struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// ExtendInterval ごとに TTL を延長する。0 の場合は TTL の半分
	ExtendInterval time.Duration
}

// DefaultVenueLockOptions は利用枠の重複チェックに使う既定値
var DefaultVenueLockOptions = VenueLockOptions{
	TTL:        5 * time.Second,
	MaxRetries: 20,
	RetryDelay: 50 * time.Millisecond,
}

// VenueLocker は会場単位の分散ロックを提供する
// 複数プロセスから同じ会場への利用枠登録を直列化する
type VenueLocker struct {
	manager *LockManager
	opts    VenueLockOptions
}

func NewVenueLocker(manager *LockManager, opts VenueLockOptions) *VenueLocker {
	if opts.ExtendInterval <= 0 {
		opts.ExtendInterval = opts.TTL / 2
	}
	return &VenueLocker{manager: manager, opts: opts}
}

// LockVenue は会場のロックを取得し、解放関数を返す
// 保持している間は ExtendInterval ごとに有効期限を延長する
func (l *VenueLocker) LockVenue(ctx context.Context, venueID uint64) (func(context.Context) error, error) {
	lock, err := l.manager.AcquireLockWithRetry(ctx, venueLockKey(venueID), l.opts.TTL, l.opts.MaxRetries, l.opts.RetryDelay)
	if err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.keepAlive(context.WithoutCancel(ctx), lock, stop)
	}()

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stop) })
		wg.Wait()
		return lock.Release(ctx)
	}, nil
}

func (l *VenueLocker) keepAlive(ctx context.Context, lock *DistributedLock, stop <-chan struct{}) {
	ticker := time.NewTicker(l.opts.ExtendInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := lock.Extend(ctx, l.opts.TTL); err != nil {
				logger.Warn("会場ロックの延長に失敗", zap.String("key", lock.Key()), zap.Error(err))
				return
			}
		}
	}
}

func venueLockKey(venueID uint64) string {
	return "venue:" + strconv.FormatUint(venueID, 10) + ":timeslots"
}
