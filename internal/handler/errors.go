package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/middleware"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	msgConflict  = "this action is not allowed in the current state, refresh and try again"
	msgNotUsable = "nothing left to use on this record"
)

// httpError maps lifecycle and service errors to HTTP responses. Anything
// unrecognised is passed through for the central error handler.
func httpError(err error) error {
	var ineligible *lifecycle.IneligiblePurchaseError
	switch {
	case errors.As(err, &ineligible):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidStateTransition):
		return echo.NewHTTPError(http.StatusConflict, msgConflict)
	case errors.Is(err, lifecycle.ErrBookingNotUsable), errors.Is(err, lifecycle.ErrSubscriptionNotUsable):
		return echo.NewHTTPError(http.StatusConflict, msgNotUsable)
	case errors.Is(err, service.ErrPackageNotFound),
		errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrPaymentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return err
	}
}

func currentActor(c echo.Context) (lifecycle.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return lifecycle.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return actor, nil
}

func parseID(c echo.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what+" id")
	}
	return uint(id), nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
