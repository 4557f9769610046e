package application

import (
	"errors"
	"fmt"

	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

var (
	// ErrInvalidInput は入力値の検証エラーを包む
	ErrInvalidInput = errors.New("入力内容が不正です")
	// ErrVenueBusy は会場ロックを取得できなかった場合のエラー
	ErrVenueBusy = errors.New("会場の利用枠が更新中です。しばらくしてから再試行してください")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// resultOf はエラーをメトリクスの結果ラベルに変換する
func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, venue.ErrVenueNotFound), errors.Is(err, timeslot.ErrTimeslotNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, ErrInvalidInput):
		return metrics.ResultInvalid
	case errors.Is(err, timeslot.ErrTimeslotOverlap), errors.Is(err, ErrVenueBusy), errors.Is(err, venue.ErrVenueHasTimeslots):
		return metrics.ResultConflict
	default:
		return metrics.ResultError
	}
}
