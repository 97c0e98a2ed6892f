package handler

import (
	"net/http"

	"github.com/Eursukkul/coaching-service/internal/dto"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/bookings", h.ListBookings)
	api.POST("/bookings", h.CreateBooking)
	api.GET("/bookings/:id", h.GetBooking)
	api.PUT("/bookings/:id/status", h.UpdateStatus)
	api.POST("/bookings/:id/usage", h.RecordUsage)
	api.POST("/bookings/:id/confirm-payment", h.ConfirmPayment)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, payment, err := h.svc.CreateBooking(c.Request().Context(), actor, req.PackageID, req.Notes)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.CreateBookingResponse{
		Booking: dto.ToBookingResponse(booking),
		Payment: dto.ToPaymentResponse(payment),
	})
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var status *models.BookingStatus
	if q := c.QueryParam("status"); q != "" {
		st := models.BookingStatus(q)
		status = &st
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), actor, status)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = dto.ToBookingResponse(&bookings[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	var req dto.UpdateBookingStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.UpdateStatus(c.Request().Context(), actor, id, models.BookingStatus(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) RecordUsage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	var req dto.RecordUsageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.RecordUsage(c.Request().Context(), actor, id, req.Hours)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ConfirmPayment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.ConfirmPayment(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
