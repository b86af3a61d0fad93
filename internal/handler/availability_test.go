package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/config"
)

type stubBookingSource struct {
	occupied map[int][]int // court -> hours
	err      error
}

func (s *stubBookingSource) OccupiedHours(_ context.Context, _ string, court int) ([]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.occupied[court], nil
}

func availabilityRequest(t *testing.T, h *AvailabilityHandler, date, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/availability/"+date+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/availability/:date")
	c.SetParamNames("date")
	c.SetParamValues(date)
	require.NoError(t, h.Day(c))
	return rec
}

func testAvailabilityHandler(src *stubBookingSource) *AvailabilityHandler {
	cfg := config.Config{Courts: 2, OpenHour: 6, CloseHour: 22}
	return NewAvailabilityHandler(cfg, booking.NewAvailabilityIndex(src, nil))
}

func TestAvailabilityDayGrid(t *testing.T) {
	h := testAvailabilityHandler(&stubBookingSource{occupied: map[int][]int{1: {9, 10}}})

	rec := availabilityRequest(t, h, "2026-09-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp availabilityResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-01", resp.Date)
	assert.Equal(t, 6, resp.OpenHour)
	assert.Equal(t, 22, resp.CloseHour)
	require.Len(t, resp.Courts, 2)
	assert.Equal(t, []int{9, 10}, resp.Courts[0].OccupiedHours)
	assert.Len(t, resp.Courts[0].FreeHours, 14)
	assert.Empty(t, resp.Courts[1].OccupiedHours)
}

func TestAvailabilitySingleCourtFilter(t *testing.T) {
	h := testAvailabilityHandler(&stubBookingSource{occupied: map[int][]int{2: {12}}})

	rec := availabilityRequest(t, h, "2026-09-01", "?court=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp availabilityResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Courts, 1)
	assert.Equal(t, 2, resp.Courts[0].Court)
	assert.Equal(t, []int{12}, resp.Courts[0].OccupiedHours)
}

func TestAvailabilityRejectsBadInput(t *testing.T) {
	h := testAvailabilityHandler(&stubBookingSource{})

	rec := availabilityRequest(t, h, "not-a-date", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = availabilityRequest(t, h, "2026-02-30", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = availabilityRequest(t, h, "2026-09-01", "?court=9")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityOutageAnswers503(t *testing.T) {
	h := testAvailabilityHandler(&stubBookingSource{err: errors.New("db down")})

	rec := availabilityRequest(t, h, "2026-09-01", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
