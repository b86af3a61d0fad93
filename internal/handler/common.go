package handler

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/model"
	"github.com/iliyamo/tennis-court-reservation/internal/repository"
)

// currentUserID extracts the numeric user id stored in context by the JWT
// middleware.  Returns 0 for unauthenticated requests.
func currentUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64: // JWT numeric claims decode as float64
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// currentEmail extracts the authenticated holder's email from context.
func currentEmail(c echo.Context) string {
	if v, ok := c.Get("email").(string); ok {
		return v
	}
	return ""
}

// isOperator reports whether the authenticated request carries the
// OPERATOR role.
func isOperator(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleOperator
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDate validates a YYYY-MM-DD path or body value.  The calendar check
// goes through time.Parse so 2026-02-30 is rejected, not just malformed
// strings.
func parseDate(s string) (string, bool) {
	if !dateRe.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

// slotStore adapts BookingRepo to the commit pipeline's writer port,
// translating the repository's duplicate-key sentinel into the engine's
// occupancy error.
type slotStore struct {
	repo *repository.BookingRepo
}

// NewSlotStore wraps a BookingRepo as the committer's slot writer.
func NewSlotStore(repo *repository.BookingRepo) booking.SlotWriter {
	return slotStore{repo: repo}
}

func (s slotStore) Create(ctx context.Context, b *model.Booking) error {
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return booking.ErrSlotOccupied
		}
		return err
	}
	return nil
}

func (s slotStore) Delete(ctx context.Context, id uint64) error {
	return s.repo.Delete(ctx, id)
}

// holdStore adapts SlotHoldRepo to the commit pipeline's hold port with the
// same error translation.
type holdStore struct {
	repo *repository.SlotHoldRepo
}

// NewHoldStore wraps a SlotHoldRepo as the committer's hold store.
func NewHoldStore(repo *repository.SlotHoldRepo) booking.HoldStore {
	return holdStore{repo: repo}
}

func (s holdStore) PlaceHolds(ctx context.Context, holderEmail, date string, court int, hours []int, ttl time.Duration) (string, error) {
	token, err := s.repo.PlaceHolds(ctx, holderEmail, date, court, hours, ttl)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return "", booking.ErrSlotOccupied
		}
		return "", err
	}
	return token, nil
}

func (s holdStore) ReleaseHolds(ctx context.Context, token string) error {
	return s.repo.ReleaseHolds(ctx, token)
}
