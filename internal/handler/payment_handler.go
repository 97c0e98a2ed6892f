package handler

import (
	"net/http"

	"github.com/Eursukkul/coaching-service/internal/dto"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// RegisterRoutes mounts the payment ledger; every route is administrative.
func (h *PaymentHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/payments", h.ListPayments)
	admin.GET("/payments/stats", h.Stats)
	admin.POST("/payments/:id/record-manual", h.RecordManual)
	admin.POST("/payments/:id/refund", h.Refund)
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	payments, err := h.svc.ListPayments(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		resp[i] = dto.ToPaymentResponse(&payments[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) Stats(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.Stats(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *PaymentHandler) RecordManual(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "payment")
	if err != nil {
		return err
	}

	out, err := h.svc.RecordManual(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPaymentOutcomeResponse(out))
}

func (h *PaymentHandler) Refund(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "payment")
	if err != nil {
		return err
	}

	out, err := h.svc.Refund(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPaymentOutcomeResponse(out))
}
