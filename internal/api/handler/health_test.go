package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-venue-booking/internal/domain/timeslot"
	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

func TestHealthHandler_Check(t *testing.T) {
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler()

	err := h.Check(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
	assert.NotContains(t, rec.Body.String(), `"components"`)
}

func TestHealthHandler_CheckComponents(t *testing.T) {
	e := NewTestEcho()

	t.Run("依存先が全て正常なら200", func(t *testing.T) {
		h := NewHealthHandler(
			HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }},
			HealthCheck{Name: "redis", Check: func(context.Context) error { return nil }},
		)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Check(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]string{"postgres": "ok", "redis": "ok"}, resp.Components)
	})

	t.Run("依存先が落ちていれば503", func(t *testing.T) {
		h := NewHealthHandler(
			HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }},
			HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
		)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Check(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Components["redis"])
	})
}

func TestToVenueResponse(t *testing.T) {
	now := time.Now()
	seats := 10
	v := &venue.Venue{
		ID:        4,
		Title:     "テスト会場",
		Address:   "東京都",
		Seats:     &seats,
		CreatedAt: now,
		UpdatedAt: now,
		DeletedAt: &now,
	}

	resp := toVenueResponse(v)

	assert.Equal(t, v.ID, resp.ID)
	assert.Equal(t, v.Title, resp.Title)
	assert.Equal(t, 10, *resp.Seats)
	assert.Equal(t, now.Format(time.RFC3339), resp.CreatedAt)
	require.NotNil(t, resp.DeletedAt)
	assert.Equal(t, now.Format(time.RFC3339), *resp.DeletedAt)
}

func TestToTimeslotResponse(t *testing.T) {
	now := time.Now()
	ts := &timeslot.Timeslot{
		ID:        2,
		VenueID:   4,
		Title:     "午前枠",
		StartAt:   now,
		EndAt:     now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := toTimeslotResponse(ts)

	assert.Equal(t, ts.ID, resp.ID)
	assert.Equal(t, ts.VenueID, resp.VenueID)
	assert.Equal(t, ts.EndAt.Format(time.RFC3339), resp.EndAt)
	assert.Nil(t, resp.Capacity)
	assert.Nil(t, resp.DeletedAt)
}
