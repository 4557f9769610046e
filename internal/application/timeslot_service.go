package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

const timeslotEntity = "timeslot"

type TimeslotService struct {
	timeslotRepo timeslot.Repository
	venueRepo    venue.Repository
	locker       VenueLocker
	metrics      *metrics.Metrics
}

// NewTimeslotService は TimeslotService を作成する
// locker が nil の場合はプロセス内ロックを使う
func NewTimeslotService(tr timeslot.Repository, vr venue.Repository, locker VenueLocker, m *metrics.Metrics) *TimeslotService {
	if locker == nil {
		locker = NewLocalVenueLocker()
	}
	return &TimeslotService{timeslotRepo: tr, venueRepo: vr, locker: locker, metrics: m}
}

type CreateTimeslotInput struct {
	VenueID   uint64
	Title     string
	StartAt   time.Time
	EndAt     time.Time
	Published bool
	Capacity  *int
}

// CreateTimeslot は利用枠を作成する
// 同じ会場の既存の利用枠と時間帯が重なる場合は ErrTimeslotOverlap
func (s *TimeslotService) CreateTimeslot(ctx context.Context, input CreateTimeslotInput) (t *timeslot.Timeslot, err error) {
	defer func() { s.metrics.ObserveStoreOperation(timeslotEntity, "create", resultOf(err)) }()

	t = timeslot.NewTimeslot(input.VenueID, input.Title, input.StartAt, input.EndAt, input.Published, input.Capacity)
	if err := t.Validate(); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.venueRepo.GetByID(ctx, input.VenueID); err != nil {
		return nil, err
	}

	release, err := s.lockVenue(ctx, input.VenueID)
	if err != nil {
		return nil, err
	}
	defer release()

	// ロック取得までに会場が削除されている可能性があるため確認し直す
	if _, err := s.venueRepo.GetByID(ctx, input.VenueID); err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, t, 0, false); err != nil {
		return nil, err
	}
	if err := s.timeslotRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("利用枠作成に失敗しました: %w", err)
	}
	return t, nil
}

func (s *TimeslotService) GetTimeslot(ctx context.Context, id uint64) (t *timeslot.Timeslot, err error) {
	defer func() { s.metrics.ObserveStoreOperation(timeslotEntity, "get", resultOf(err)) }()
	return s.timeslotRepo.GetByID(ctx, id)
}

func (s *TimeslotService) ListTimeslots(ctx context.Context, filter timeslot.ListFilter) (slots []*timeslot.Timeslot, err error) {
	defer func() { s.metrics.ObserveStoreOperation(timeslotEntity, "list", resultOf(err)) }()
	return s.timeslotRepo.List(ctx, filter)
}

// ListTimeslotsByVenue は会場の利用枠を開始時刻順に返す
func (s *TimeslotService) ListTimeslotsByVenue(ctx context.Context, venueID uint64) (slots []*timeslot.Timeslot, err error) {
	defer func() { s.metrics.ObserveStoreOperation(timeslotEntity, "list_by_venue", resultOf(err)) }()

	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return s.timeslotRepo.ListByVenue(ctx, venueID)
}

// UpdateTimeslot はパッチで指定されたフィールドのみを更新する
// 時間帯を変更する場合は適用後の時間帯で検証と重複チェックを行う
func (s *TimeslotService) UpdateTimeslot(ctx context.Context, id uint64, patch timeslot.Patch) (t *timeslot.Timeslot, err error) {
	defer func() { s.metrics.ObserveStoreOperation(timeslotEntity, "update", resultOf(err)) }()

	if err := patch.Validate(); err != nil {
		return nil, invalid(err)
	}
	if !patch.TouchesWindow() {
		return s.timeslotRepo.Update(ctx, id, patch)
	}

	current, err := s.timeslotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	release, err := s.lockVenue(ctx, current.VenueID)
	if err != nil {
		return nil, err
	}
	defer release()

	// ロック取得までに更新されている可能性があるため取り直す
	current, err = s.timeslotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	candidate := current.Clone()
	patch.Apply(candidate)
	if err := candidate.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkOverlap(ctx, candidate, id, true); err != nil {
		return nil, err
	}
	return s.timeslotRepo.Update(ctx, id, patch)
}

// DeleteTimeslot は利用枠を削除し、削除前の利用枠を返す
func (s *TimeslotService) DeleteTimeslot(ctx context.Context, id uint64) (t *timeslot.Timeslot, err error) {
	defer func() { s.metrics.ObserveStoreOperation(timeslotEntity, "delete", resultOf(err)) }()
	return s.timeslotRepo.Delete(ctx, id)
}

// checkOverlap は t と同じ会場の利用枠に重なりがないかを確認する
// exclude が true の場合は excludeID の利用枠を比較対象から除く。ID 0 も有効な ID として扱う
func (s *TimeslotService) checkOverlap(ctx context.Context, t *timeslot.Timeslot, excludeID uint64, exclude bool) error {
	existing, err := s.timeslotRepo.ListByVenue(ctx, t.VenueID)
	if err != nil {
		return fmt.Errorf("既存の利用枠取得に失敗しました: %w", err)
	}
	for _, other := range existing {
		if exclude && other.ID == excludeID {
			continue
		}
		if t.Overlaps(other) {
			return timeslot.ErrTimeslotOverlap
		}
	}
	return nil
}

func (s *TimeslotService) lockVenue(ctx context.Context, venueID uint64) (func(), error) {
	return lockVenue(ctx, s.locker, s.metrics, venueID)
}
