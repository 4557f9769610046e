package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/optional"
)

const venueEntity = "venue"

type VenueService struct {
	venueRepo    venue.Repository
	timeslotRepo timeslot.Repository
	locker       VenueLocker
	cache        VenueCache
	metrics      *metrics.Metrics
}

// NewVenueService は VenueService を作成する。cache と m は nil でもよい
// locker は TimeslotService と同じものを渡す。nil の場合はプロセス内ロックを使う
func NewVenueService(venueRepo venue.Repository, timeslotRepo timeslot.Repository, locker VenueLocker, cache VenueCache, m *metrics.Metrics) *VenueService {
	if locker == nil {
		locker = NewLocalVenueLocker()
	}
	return &VenueService{venueRepo: venueRepo, timeslotRepo: timeslotRepo, locker: locker, cache: cache, metrics: m}
}

type CreateVenueInput struct {
	Title       string
	Description string
	Address     string
	Published   bool
	Seats       *int
}

func (s *VenueService) CreateVenue(ctx context.Context, input CreateVenueInput) (v *venue.Venue, err error) {
	defer func() { s.metrics.ObserveStoreOperation(venueEntity, "create", resultOf(err)) }()

	v = venue.NewVenue(input.Title, input.Description, input.Address, input.Published, input.Seats)
	if err := v.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.venueRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("会場作成に失敗しました: %w", err)
	}
	return v, nil
}

// GetVenue は会場を取得する。キャッシュが設定されていれば先に参照する
func (s *VenueService) GetVenue(ctx context.Context, id uint64) (v *venue.Venue, err error) {
	defer func() { s.metrics.ObserveStoreOperation(venueEntity, "get", resultOf(err)) }()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			s.metrics.ObserveCacheLookup("hit")
			logger.Debug("キャッシュヒット", zap.Uint64("venue_id", id))
			return cached, nil
		}
		if s.cache.IsMiss(err) {
			s.metrics.ObserveCacheLookup("miss")
		} else {
			s.metrics.ObserveCacheLookup("error")
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	v, err = s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.fillCache(ctx, v)
	}
	return v, nil
}

// fillCache は v をキャッシュに保存する
// 保存までの間に更新や削除が行われていた場合は、古い内容が残らないよう無効化する
func (s *VenueService) fillCache(ctx context.Context, v *venue.Venue) {
	if err := s.cache.Set(ctx, v); err != nil {
		logger.Warn("キャッシュ保存エラー", zap.Error(err))
		return
	}
	current, err := s.venueRepo.GetByID(ctx, v.ID)
	if err == nil && current.UpdatedAt.Equal(v.UpdatedAt) {
		return
	}
	s.invalidateCache(ctx, v.ID)
}

func (s *VenueService) ListVenues(ctx context.Context, filter venue.ListFilter) (venues []*venue.Venue, err error) {
	defer func() { s.metrics.ObserveStoreOperation(venueEntity, "list", resultOf(err)) }()
	return s.venueRepo.List(ctx, filter)
}

// UpdateVenue はパッチで指定されたフィールドのみを更新する
func (s *VenueService) UpdateVenue(ctx context.Context, id uint64, patch venue.Patch) (v *venue.Venue, err error) {
	defer func() { s.metrics.ObserveStoreOperation(venueEntity, "update", resultOf(err)) }()

	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}
	v, err = s.venueRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, id)
	return v, nil
}

// PublishVenue は会場を公開状態にする
func (s *VenueService) PublishVenue(ctx context.Context, id uint64) (*venue.Venue, error) {
	return s.UpdateVenue(ctx, id, venue.Patch{Published: optional.Of(true)})
}

// UnpublishVenue は会場を非公開にする
func (s *VenueService) UnpublishVenue(ctx context.Context, id uint64) (*venue.Venue, error) {
	return s.UpdateVenue(ctx, id, venue.Patch{Published: optional.Of(false)})
}

// DeleteVenue は会場を削除し、削除前の会場を返す
// 利用枠が残っている会場は ErrVenueHasTimeslots
func (s *VenueService) DeleteVenue(ctx context.Context, id uint64) (v *venue.Venue, err error) {
	defer func() { s.metrics.ObserveStoreOperation(venueEntity, "delete", resultOf(err)) }()

	// 利用枠の作成と同じロックで直列化する
	release, err := lockVenue(ctx, s.locker, s.metrics, id)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.venueRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	slots, err := s.timeslotRepo.ListByVenue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("会場の利用枠取得に失敗しました: %w", err)
	}
	if len(slots) > 0 {
		return nil, venue.ErrVenueHasTimeslots
	}

	v, err = s.venueRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, id)
	return v, nil
}

func (s *VenueService) invalidateCache(ctx context.Context, id uint64) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Uint64("venue_id", id), zap.Error(err))
		}
	}
}
