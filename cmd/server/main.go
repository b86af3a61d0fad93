package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/tennis-court-reservation/internal/booking"
	"github.com/iliyamo/tennis-court-reservation/internal/config"
	"github.com/iliyamo/tennis-court-reservation/internal/database"
	"github.com/iliyamo/tennis-court-reservation/internal/handler"
	"github.com/iliyamo/tennis-court-reservation/internal/payment"
	"github.com/iliyamo/tennis-court-reservation/internal/queue"
	"github.com/iliyamo/tennis-court-reservation/internal/repository"
	"github.com/iliyamo/tennis-court-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables cache and rate limiting

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	holds := repository.NewSlotHoldRepo(db)
	charges := repository.NewChargeRepo(db)

	// Engine.
	index := booking.NewAvailabilityIndex(bookings, holds)
	quota := booking.NewQuotaGuard(bookings)
	processor := payment.NewMockProcessor(charges)
	vouchers := booking.VoucherLinker{BaseURL: cfg.PublicBaseURL}
	committer := booking.NewBookingCommitter(
		index,
		quota,
		handler.NewSlotStore(bookings),
		handler.NewHoldStore(holds),
		processor,
		vouchers,
		time.Duration(cfg.HoldTTLMin)*time.Minute,
		cfg.PriceCents,
		cfg.Currency,
	)

	// Handlers.
	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Availability: handler.NewAvailabilityHandler(cfg, index),
		Booking:      handler.NewBookingHandler(cfg, cacheCfg, users, bookings, index, committer, rdb),
		Voucher:      handler.NewVoucherHandler(cfg, charges, bookings, processor),
	}

	// Background consumer that materializes booking.confirmed events into
	// logs/booking.log.  Runs its own reconnect loop.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.Register(e, h, cfg, cacheCfg, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
