package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/domain/pagination"
)

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")

// parseID はパスパラメータ name を符号なし整数のIDとして解釈する
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "IDの形式が不正です")
	}
	return id, nil
}

// listParams は一覧取得のクエリパラメータ offset, limit, include_deleted を解釈する
func listParams(c echo.Context) (pagination.Pagination, bool, error) {
	p, err := pagination.Parse(c.QueryParam("offset"), c.QueryParam("limit"))
	if err != nil {
		return pagination.Pagination{}, false, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	includeDeleted := false
	if raw := c.QueryParam("include_deleted"); raw != "" {
		includeDeleted, err = strconv.ParseBool(raw)
		if err != nil {
			return pagination.Pagination{}, false, echo.NewHTTPError(http.StatusBadRequest, "include_deleted は true または false で指定してください")
		}
	}
	return p, includeDeleted, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// bindBody はリクエストボディのみを JSON として読み込む
// パスパラメータやクエリは対象にしない
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errInvalidBody
	}
	return nil
}
