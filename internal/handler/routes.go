package handler

import (
	"github.com/Eursukkul/coaching-service/internal/middleware"
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health        *HealthHandler
	Packages      *PackageHandler
	Subscriptions *SubscriptionHandler
	Bookings      *BookingHandler
	Payments      *PaymentHandler
	Entitlements  *EntitlementHandler
}

// Register mounts every route under /api/v1. auth guards everything except
// the health check and the public catalog.
func (h Handlers) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	h.Health.RegisterRoutes(e)

	public := e.Group("/api/v1")
	api := public.Group("", auth)
	admin := api.Group("/admin", middleware.RequireAdmin)

	h.Packages.RegisterRoutes(public, admin)
	h.Subscriptions.RegisterRoutes(api, admin)
	h.Bookings.RegisterRoutes(api)
	h.Payments.RegisterRoutes(admin)
	h.Entitlements.RegisterRoutes(api)
}
