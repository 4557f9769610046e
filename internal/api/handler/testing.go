package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/api"
)

// NewTestEcho はハンドラーテスト用のEchoインスタンスを作成する
// 本番と同じバリデーターとエラーハンドラーを使う
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
