package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/infrastructure/memory"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

const (
	msgInternal    = "内部サーバーエラー"
	msgPersistence = "データの保存または読み込みに失敗しました"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HTTPError はアプリケーションのエラーをHTTPステータス付きのエラーに変換する
// 5xx の場合、元のエラーはレスポンスに含めず Internal に保持する
func HTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, application.ErrInvalidInput), errors.Is(err, pagination.ErrInvalidPagination):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, venue.ErrVenueNotFound), errors.Is(err, timeslot.ErrTimeslotNotFound):
		return notFound(err)
	case errors.Is(err, timeslot.ErrTimeslotOverlap), errors.Is(err, application.ErrVenueBusy), errors.Is(err, venue.ErrVenueHasTimeslots):
		return echo.NewHTTPError(http.StatusConflict, conflictMessage(err))
	case errors.Is(err, memory.ErrFileAccess), errors.Is(err, memory.ErrSerialization):
		return echo.NewHTTPError(http.StatusInternalServerError, msgPersistence).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msgInternal).SetInternal(err)
	}
}

func notFound(err error) *echo.HTTPError {
	msg := venue.ErrVenueNotFound.Error()
	if errors.Is(err, timeslot.ErrTimeslotNotFound) {
		msg = timeslot.ErrTimeslotNotFound.Error()
	}
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrVenueBusy):
		return application.ErrVenueBusy.Error()
	case errors.Is(err, venue.ErrVenueHasTimeslots):
		return venue.ErrVenueHasTimeslots.Error()
	}
	return timeslot.ErrTimeslotOverlap.Error()
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := HTTPError(err)
	code := he.Code
	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(code)
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(cause),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: message, Code: code})
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
