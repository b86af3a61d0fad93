// Package router wires the HTTP surface: route groups, authentication
// middleware and the role gates for operator-only endpoints.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/tennis-court-reservation/internal/config"
	"github.com/iliyamo/tennis-court-reservation/internal/handler"
	"github.com/iliyamo/tennis-court-reservation/internal/middleware"
	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Availability *handler.AvailabilityHandler
	Booking      *handler.BookingHandler
	Voucher      *handler.VoucherHandler
}

// Register sets up the whole route table.
//
// Public: health, availability browsing and voucher retrieval — guests can
// inspect the schedule and open a voucher link without a session.  The
// availability endpoint sits behind the Redis response cache.
//
// Protected (/v1, JWT): booking commit, the caller's bookings, payment
// capture.  Operator-only: the day roster.
func Register(e *echo.Echo, h Handlers, cfg config.Config, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(rlCfg, rdb)
	e.Use(limiter)

	// Auth endpoints that establish or exchange sessions.
	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)

	// Guest browsing: the day grid, cached briefly in Redis.
	e.GET("/v1/availability/:date", h.Availability.Day, middleware.NewRedisCache(cacheCfg, rdb))

	// Voucher links resolve without a session: the URL itself is the
	// capability.
	e.GET("/v1/vouchers/:charge_id", h.Voucher.Voucher)

	// Everything below needs a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleOperator))
	auth.GET("/me", h.Auth.Me)
	auth.POST("/bookings", h.Booking.Create)
	auth.GET("/my-bookings", h.Booking.Mine)
	auth.POST("/payments/charge", h.Voucher.Charge)

	// Operator-only surface.
	op := e.Group("/v1")
	op.Use(middleware.JWTAuth(cfg.JWTSecret))
	op.Use(middleware.RequireRole(model.RoleOperator))
	op.GET("/bookings/day/:date", h.Booking.Day)
}
