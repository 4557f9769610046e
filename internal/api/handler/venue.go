package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-venue-booking/internal/api"
	"github.com/sanosuguru/go-venue-booking/internal/application"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/optional"
)

type VenueHandler struct {
	venueService VenueServiceInterface
}

func NewVenueHandler(venueService VenueServiceInterface) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

type CreateVenueRequest struct {
	Title       string `json:"title" validate:"required,max=255" example:"市民ホール 大ホール"`
	Description string `json:"description" example:"収容人数500名の多目的ホール"`
	Address     string `json:"address" validate:"required" example:"東京都千代田区1-1"`
	Published   bool   `json:"published" example:"false"`
	Seats       *int   `json:"seats" validate:"omitempty,gte=0" example:"500"`
}

// UpdateVenueRequest は会場の部分更新リクエスト
// 省略したフィールドは変更されず、seats に null を指定すると座席数をクリアする
type UpdateVenueRequest struct {
	Title       optional.Field[string] `json:"title" swaggertype:"string"`
	Description optional.Field[string] `json:"description" swaggertype:"string"`
	Address     optional.Field[string] `json:"address" swaggertype:"string"`
	Published   optional.Field[bool]   `json:"published" swaggertype:"boolean"`
	Seats       optional.Field[int]    `json:"seats" swaggertype:"integer"`
}

func (r UpdateVenueRequest) toPatch() venue.Patch {
	return venue.Patch{
		Title:       r.Title,
		Description: r.Description,
		Address:     r.Address,
		Published:   r.Published,
		Seats:       r.Seats,
	}
}

type VenueResponse struct {
	ID          uint64  `json:"id" example:"0"`
	Title       string  `json:"title" example:"市民ホール 大ホール"`
	Description string  `json:"description" example:"収容人数500名の多目的ホール"`
	Address     string  `json:"address" example:"東京都千代田区1-1"`
	Published   bool    `json:"published" example:"false"`
	Seats       *int    `json:"seats" example:"500"`
	CreatedAt   string  `json:"created_at" example:"2025-12-06T10:00:00+09:00"`
	UpdatedAt   string  `json:"updated_at" example:"2025-12-06T10:00:00+09:00"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
}

func toVenueResponse(v *venue.Venue) *VenueResponse {
	return &VenueResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Address:     v.Address,
		Published:   v.Published,
		Seats:       v.Seats,
		CreatedAt:   formatTime(v.CreatedAt),
		UpdatedAt:   formatTime(v.UpdatedAt),
		DeletedAt:   formatTimePtr(v.DeletedAt),
	}
}

func toVenueResponses(venues []*venue.Venue) []*VenueResponse {
	responses := make([]*VenueResponse, len(venues))
	for i, v := range venues {
		responses[i] = toVenueResponse(v)
	}
	return responses
}

// Create godoc
// @Summary 会場を作成
// @Description 新しい会場を作成します
// @Tags venues
// @Accept json
// @Produce json
// @Param request body CreateVenueRequest true "会場情報"
// @Success 201 {object} VenueResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /venues [post]
func (h *VenueHandler) Create(c echo.Context) error {
	var req CreateVenueRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	v, err := h.venueService.CreateVenue(c.Request().Context(), application.CreateVenueInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Published:   req.Published,
		Seats:       req.Seats,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, toVenueResponse(v))
}

// GetByID godoc
// @Summary 会場を取得
// @Tags venues
// @Produce json
// @Param id path int true "会場ID"
// @Success 200 {object} VenueResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id} [get]
func (h *VenueHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.venueService.GetVenue(c.Request().Context(), id)
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toVenueResponse(v))
}

// List godoc
// @Summary 会場一覧を取得
// @Description 会場をID順に取得します。limit を省略した場合は全件を返します
// @Tags venues
// @Produce json
// @Param offset query int false "オフセット" default(0)
// @Param limit query int false "取得件数"
// @Param include_deleted query bool false "論理削除済みを含める"
// @Success 200 {array} VenueResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /venues [get]
func (h *VenueHandler) List(c echo.Context) error {
	p, includeDeleted, err := listParams(c)
	if err != nil {
		return err
	}
	venues, err := h.venueService.ListVenues(c.Request().Context(), venue.ListFilter{
		Pagination:     p,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toVenueResponses(venues))
}

// Update godoc
// @Summary 会場を部分更新
// @Description 指定したフィールドのみを更新します
// @Tags venues
// @Accept json
// @Produce json
// @Param id path int true "会場ID"
// @Param request body UpdateVenueRequest true "更新するフィールド"
// @Success 200 {object} VenueResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id} [patch]
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateVenueRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	v, err := h.venueService.UpdateVenue(c.Request().Context(), id, req.toPatch())
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toVenueResponse(v))
}

// Publish godoc
// @Summary 会場を公開
// @Tags venues
// @Produce json
// @Param id path int true "会場ID"
// @Success 200 {object} VenueResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id}/published [put]
func (h *VenueHandler) Publish(c echo.Context) error {
	return h.setPublished(c, true)
}

// Unpublish godoc
// @Summary 会場を非公開にする
// @Tags venues
// @Produce json
// @Param id path int true "会場ID"
// @Success 200 {object} VenueResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /venues/{id}/unpublished [put]
func (h *VenueHandler) Unpublish(c echo.Context) error {
	return h.setPublished(c, false)
}

func (h *VenueHandler) setPublished(c echo.Context, published bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	var v *venue.Venue
	if published {
		v, err = h.venueService.PublishVenue(ctx, id)
	} else {
		v, err = h.venueService.UnpublishVenue(ctx, id)
	}
	if err != nil {
		return api.HTTPError(err)
	}
	return c.JSON(http.StatusOK, toVenueResponse(v))
}

// Delete godoc
// @Summary 会場を削除
// @Tags venues
// @Param id path int true "会場ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /venues/{id} [delete]
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.venueService.DeleteVenue(c.Request().Context(), id); err != nil {
		return api.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
