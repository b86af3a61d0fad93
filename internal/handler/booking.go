package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/config"
	"github.com/iliyamo/tennis-court-reservation/internal/middleware"
	"github.com/iliyamo/tennis-court-reservation/internal/model"
	"github.com/iliyamo/tennis-court-reservation/internal/queue"
	"github.com/iliyamo/tennis-court-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/tennis-court-reservation/internal/service"
)

// BookingHandler exposes the reservation flow over HTTP: committing a
// selected range, listing the caller's bookings, and the operator's day
// roster.
type BookingHandler struct {
	Cfg       config.Config
	CacheCfg  config.CacheConfig
	Users     *repository.UserRepo
	Bookings  *repository.BookingRepo
	Index     *booking.AvailabilityIndex
	Committer *booking.BookingCommitter
	Redis     *redis.Client
}

func NewBookingHandler(
	cfg config.Config,
	cacheCfg config.CacheConfig,
	users *repository.UserRepo,
	bookings *repository.BookingRepo,
	idx *booking.AvailabilityIndex,
	committer *booking.BookingCommitter,
	rdb *redis.Client,
) *BookingHandler {
	return &BookingHandler{
		Cfg:       cfg,
		CacheCfg:  cacheCfg,
		Users:     users,
		Bookings:  bookings,
		Index:     idx,
		Committer: committer,
		Redis:     rdb,
	}
}

type paymentPart struct {
	Method   string `json:"method"`   // card | other
	Simulate string `json:"simulate"` // "", "failed", "cancelled" (test envs)
}

type createBookingReq struct {
	Date         string      `json:"date"`
	Court        int         `json:"court"`
	StartHour    int         `json:"start_hour"`
	EndHour      int         `json:"end_hour"` // exclusive
	Payment      paymentPart `json:"payment"`
	AdminComment string      `json:"admin_comment"` // operator only
}

type createBookingResp struct {
	Date       string `json:"date"`
	Court      int    `json:"court"`
	StartHour  int    `json:"start_hour"`
	EndHour    int    `json:"end_hour"`
	Status     string `json:"status"`
	ChargeID   string `json:"charge_id,omitempty"`
	VoucherURL string `json:"voucher_url"`
}

// Create handles POST /v1/bookings.  The requested range runs through the
// same selection machine the interactive flow uses — anchor the start hour,
// extend to the end, release — so every occupancy rule is applied in one
// place, then the committer takes over: quota, hold, charge, persist.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.Court < 1 || req.Court > h.Cfg.Courts {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown court"})
	}
	span := req.EndHour - req.StartHour
	if span < 1 || span > booking.MaxSelectionHours {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookings span one or two consecutive hours"})
	}

	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
	}

	sel := booking.NewSelectionController(h.Index, h.Cfg.OpenHour, h.Cfg.CloseHour, nil)
	if err := sel.Load(ctx, date, req.Court, email); err != nil {
		return h.commitError(c, err)
	}
	if err := sel.Begin(req.StartHour); err != nil {
		return h.commitError(c, err)
	}
	sel.Extend(req.EndHour - 1)
	rng, err := sel.Release()
	if err != nil {
		return h.commitError(c, err)
	}
	if rng.EndHour != req.EndHour {
		// the extension was refused: some hour inside the range is taken
		sel.Cancel()
		return h.commitError(c, booking.ErrSlotOccupied)
	}

	privileged := isOperator(c)
	holder := booking.Holder{
		Email:      user.Email,
		Name:       user.Name,
		Phone:      user.Phone,
		Privileged: privileged,
	}
	opts := booking.CommitOptions{PaymentType: req.Payment.Method}
	if privileged {
		opts.AdminComment = req.AdminComment
	}
	if req.Payment.Simulate != "" {
		opts.ChargeMetadata = map[string]string{"simulate": req.Payment.Simulate}
	}
	// The operator may record a booking settled at the desk; everyone else
	// pays through the processor.
	requirePayment := !privileged || req.Payment.Method != model.PaymentTypeOther
	res, err := h.Committer.Commit(ctx, rng, holder, requirePayment, opts)
	sel.Cancel()
	if err != nil {
		return h.commitError(c, err)
	}

	h.afterCommit(rng, holder, res)

	resp := createBookingResp{
		Date:       rng.Date,
		Court:      rng.Court,
		StartHour:  rng.StartHour,
		EndHour:    rng.EndHour,
		Status:     res.Bookings[0].Status,
		VoucherURL: res.VoucherURL,
	}
	if res.Charge != nil {
		resp.ChargeID = res.Charge.ID
	}
	return c.JSON(http.StatusCreated, resp)
}

// afterCommit handles the side effects of a successful booking: drop the
// cached availability responses and publish the confirmation event.  Both
// are best effort and never fail the request.
func (h *BookingHandler) afterCommit(rng booking.SelectionRange, holder booking.Holder, res *booking.CommitResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	middleware.FlushCache(ctx, h.CacheCfg, h.Redis)
	cancel()

	ev := queue.BookingConfirmedEvent{
		HolderEmail: holder.Email,
		HolderName:  holder.Name,
		Date:        rng.Date,
		Court:       rng.Court,
		StartHour:   rng.StartHour,
		EndHour:     rng.EndHour,
		VoucherURL:  res.VoucherURL,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if res.Charge != nil {
		ev.ChargeID = res.Charge.ID
		ev.TotalAmountCents = res.Charge.AmountCents
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishBookingConfirmed(pctx, ev)
	}()
}

// commitError maps the engine's error taxonomy onto HTTP statuses.
func (h *BookingHandler) commitError(c echo.Context, err error) error {
	var partial *booking.PartialCommitError
	switch {
	case errors.As(err, &partial):
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":        "booking partially failed",
			"booked_hours": partial.Hours,
		})
	case errors.Is(err, booking.ErrSlotOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot already occupied"})
	case errors.Is(err, booking.ErrQuotaExceeded):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "daily booking limit reached for this court"})
	case errors.Is(err, booking.ErrPaymentDeclined):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment declined"})
	case errors.Is(err, booking.ErrPaymentCancelled):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment cancelled"})
	case errors.Is(err, booking.ErrScheduleUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "schedule unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}

// Mine handles GET /v1/my-bookings: the caller's booking hours folded into
// contiguous ranges.
func (h *BookingHandler) Mine(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.ListByHolder(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	merged := booking.MergeContiguous(rows)
	if merged == nil {
		merged = []model.MergedBooking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": merged})
}

// Day handles GET /v1/bookings/day/:date, the operator's roster of every
// booking on a day across all courts.
func (h *BookingHandler) Day(c echo.Context) error {
	date, ok := parseDate(c.Param("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Bookings.ListByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	merged := booking.MergeContiguous(rows)
	if merged == nil {
		merged = []model.MergedBooking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "bookings": merged})
}
