package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/config"
)

// AvailabilityHandler serves the day grid the booking screen is drawn
// from: per court, which hours of the bookable window are free.
type AvailabilityHandler struct {
	Cfg   config.Config
	Index *booking.AvailabilityIndex
}

func NewAvailabilityHandler(cfg config.Config, idx *booking.AvailabilityIndex) *AvailabilityHandler {
	return &AvailabilityHandler{Cfg: cfg, Index: idx}
}

type courtAvailability struct {
	Court         int   `json:"court"`
	OccupiedHours []int `json:"occupied_hours"`
	FreeHours     []int `json:"free_hours"`
}

type availabilityResp struct {
	Date      string              `json:"date"`
	OpenHour  int                 `json:"open_hour"`
	CloseHour int                 `json:"close_hour"`
	Courts    []courtAvailability `json:"courts"`
}

// Day handles GET /v1/availability/:date.  An optional ?court=N query
// narrows the response to one court.  A failed occupancy read answers 503:
// the schedule must never be presented as free when its state is unknown.
func (h *AvailabilityHandler) Day(c echo.Context) error {
	date, ok := parseDate(c.Param("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	first, last := 1, h.Cfg.Courts
	if q := c.QueryParam("court"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > h.Cfg.Courts {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown court"})
		}
		first, last = n, n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := availabilityResp{
		Date:      date,
		OpenHour:  h.Cfg.OpenHour,
		CloseHour: h.Cfg.CloseHour,
	}
	viewer := currentEmail(c) // empty for anonymous browsing
	for court := first; court <= last; court++ {
		occ, err := h.Index.QueryFor(ctx, date, court, viewer)
		if err != nil {
			if errors.Is(err, booking.ErrScheduleUnavailable) {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "schedule unavailable"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability query failed"})
		}
		ca := courtAvailability{
			Court:         court,
			OccupiedHours: []int{},
			FreeHours:     []int{},
		}
		for hour := h.Cfg.OpenHour; hour < h.Cfg.CloseHour; hour++ {
			if occ.Has(hour) {
				ca.OccupiedHours = append(ca.OccupiedHours, hour)
			} else {
				ca.FreeHours = append(ca.FreeHours, hour)
			}
		}
		resp.Courts = append(resp.Courts, ca)
	}
	return c.JSON(http.StatusOK, resp)
}
