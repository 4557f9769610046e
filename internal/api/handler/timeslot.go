package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/api"
	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/optional"
)

type TimeslotHandler struct {
	timeslotService TimeslotServiceInterface
}

func NewTimeslotHandler(timeslotService TimeslotServiceInterface) *TimeslotHandler {
	return &TimeslotHandler{timeslotService: timeslotService}
}

type CreateTimeslotRequest struct {
	VenueID   *uint64 `json:"venue_id" validate:"required" example:"0"`
	Title     string  `json:"title" validate:"required,max=255" example:"午前枠"`
	StartAt   string  `json:"start_at" validate:"required" example:"2025-12-31T09:00:00+09:00"`
	EndAt     string  `json:"end_at" validate:"required" example:"2025-12-31T12:00:00+09:00"`
	Published bool    `json:"published" example:"true"`
	Capacity  *int    `json:"capacity" validate:"omitempty,gte=0" example:"100"`
}

// UpdateTimeslotRequest は利用枠の部分更新リクエスト
type UpdateTimeslotRequest struct {
	Title     optional.Field[string]    `json:"title" swaggertype:"string"`
	StartAt   optional.Field[time.Time] `json:"start_at" swaggertype:"string" format:"date-time"`
	EndAt     optional.Field[time.Time] `json:"end_at" swaggertype:"string" format:"date-time"`
	Published optional.Field[bool]      `json:"published" swaggertype:"boolean"`
	Capacity  optional.Field[int]       `json:"capacity" swaggertype:"integer"`
}

func (r UpdateTimeslotRequest) toPatch() timeslot.Patch {
	return timeslot.Patch{
		Title:     r.Title,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Published: r.Published,
		Capacity:  r.Capacity,
	}
}

type TimeslotResponse struct {
	ID        uint64  `json:"id" example:"0"`
	VenueID   uint64  `json:"venue_id" example:"0"`
	Title     string  `json:"title" example:"午前枠"`
	StartAt   string  `json:"start_at" example:"2025-12-31T09:00:00+09:00"`
	EndAt     string  `json:"end_at" example:"2025-12-31T12:00:00+09:00"`
	Published bool    `json:"published" example:"true"`
	Capacity  *int    `json:"capacity" example:"100"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
	DeletedAt *string `json:"deleted_at,omitempty"`
}

func toTimeslotResponse(t *timeslot.Timeslot) *TimeslotResponse {
	return &TimeslotResponse{
		ID:        t.ID,
		VenueID:   t.VenueID,
		Title:     t.Title,
		StartAt:   formatTime(t.StartAt),
		EndAt:     formatTime(t.EndAt),
		Published: t.Published,
		Capacity:  t.Capacity,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
		DeletedAt: formatTimePtr(t.DeletedAt),
	}
}

func toTimeslotResponses(slots []*timeslot.Timeslot) []*TimeslotResponse {
	responses := make([]*TimeslotResponse, len(slots))
	for i, t := range slots {
		responses[i] = toTimeslotResponse(t)
	}
	return responses
}

// Create godoc
// @Summary 利用枠を作成
// @Description 会場に利用枠を作成します。同じ会場の利用枠と時間帯が重なる場合は409を返します
// @Tags timeslots
// @Accept json
// @Produce json
// @Param request body CreateTimeslotRequest true "利用枠情報"
// @Success 201 {object} TimeslotResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /timeslots [post]
func (h *TimeslotHandler) Create(c echo.Context) error {
	var req CreateTimeslotRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開始時刻の形式が不正です")
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "終了時刻の形式が不正です")
	}

	ts, err := h.timeslotService.CreateTimeslot(c.Request().Context(), application.CreateTimeslotInput{
		VenueID:   *req.VenueID,
		Title:     req.Title,
		StartAt:   startAt,
		EndAt:     endAt,
		Published: req.Published,
		Capacity:  req.Capacity,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toTimeslotResponse(ts))
}

// GetByID godoc
// @Summary 利用枠を取得
// @Tags timeslots
// @Produce json
// @Param id path int true "利用枠ID"
// @Success 200 {object} TimeslotResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /timeslots/{id} [get]
func (h *TimeslotHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ts, err := h.timeslotService.GetTimeslot(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toTimeslotResponse(ts))
}

// List godoc
// @Summary 利用枠一覧を取得
// @Tags timeslots
// @Produce json
// @Param offset query int false "オフセット" default(0)
// @Param limit query int false "取得件数"
// @Param include_deleted query bool false "論理削除済みを含める"
// @Success 200 {array} TimeslotResponse
// @Router /timeslots [get]
func (h *TimeslotHandler) List(c echo.Context) error {
	p, includeDeleted, err := listParams(c)
	if err != nil {
		return err
	}
	slots, err := h.timeslotService.ListTimeslots(c.Request().Context(), timeslot.ListFilter{
		Pagination:     p,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toTimeslotResponses(slots))
}

// ListByVenue godoc
// @Summary 会場の利用枠一覧を取得
// @Description 会場の利用枠を開始時刻順に取得します
// @Tags venues
// @Produce json
// @Param id path int true "会場ID"
// @Success 200 {array} TimeslotResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id}/timeslots [get]
func (h *TimeslotHandler) ListByVenue(c echo.Context) error {
	venueID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	slots, err := h.timeslotService.ListTimeslotsByVenue(c.Request().Context(), venueID)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toTimeslotResponses(slots))
}

// Update godoc
// @Summary 利用枠を部分更新
// @Tags timeslots
// @Accept json
// @Produce json
// @Param id path int true "利用枠ID"
// @Param request body UpdateTimeslotRequest true "更新するフィールド"
// @Success 200 {object} TimeslotResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /timeslots/{id} [patch]
func (h *TimeslotHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateTimeslotRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ts, err := h.timeslotService.UpdateTimeslot(c.Request().Context(), id, req.toPatch())
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toTimeslotResponse(ts))
}

// Delete godoc
// @Summary 利用枠を削除
// @Tags timeslots
// @Param id path int true "利用枠ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Router /timeslots/{id} [delete]
func (h *TimeslotHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.timeslotService.DeleteTimeslot(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
