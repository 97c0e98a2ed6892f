package handler

import (
	"context"
	"net/http"

	"github.com/Eursukkul/coaching-service/internal/dto"
	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

type SubscriptionHandler struct {
	svc service.SubscriptionService
}

func NewSubscriptionHandler(svc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) RegisterRoutes(api, admin *echo.Group) {
	api.GET("/subscriptions", h.ListSubscriptions)
	api.POST("/subscriptions", h.Purchase)
	api.GET("/subscriptions/:id", h.GetSubscription)
	api.POST("/subscriptions/:id/confirm-payment", h.ConfirmPayment)
	api.PUT("/subscriptions/:id/cancel", h.Cancel)
	api.POST("/subscriptions/:id/sessions", h.RecordSession)

	admin.POST("/subscriptions/:id/renew", h.Renew)
}

func (h *SubscriptionHandler) ListSubscriptions(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	details, err := h.svc.List(c.Request().Context(), actor, c.QueryParam("user_id"))
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.SubscriptionResponse, len(details))
	for i := range details {
		resp[i] = dto.ToSubscriptionDetailResponse(&details[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SubscriptionHandler) Purchase(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.PurchaseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.svc.Purchase(c.Request().Context(), actor, req.PackageID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.PurchaseResponse{
		Subscription: dto.ToSubscriptionResponse(&result.Subscription),
		Payment:      dto.ToPaymentResponse(&result.Payment),
	})
}

func (h *SubscriptionHandler) GetSubscription(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "subscription")
	if err != nil {
		return err
	}

	detail, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSubscriptionDetailResponse(detail))
}

func (h *SubscriptionHandler) ConfirmPayment(c echo.Context) error {
	return h.mutate(c, h.svc.ConfirmPayment)
}

func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	return h.mutate(c, h.svc.Cancel)
}

func (h *SubscriptionHandler) RecordSession(c echo.Context) error {
	return h.mutate(c, h.svc.RecordSession)
}

func (h *SubscriptionHandler) Renew(c echo.Context) error {
	return h.mutate(c, h.svc.Renew)
}

type subscriptionOp func(ctx context.Context, actor lifecycle.Actor, id uint) (*models.Subscription, error)

func (h *SubscriptionHandler) mutate(c echo.Context, op subscriptionOp) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "subscription")
	if err != nil {
		return err
	}

	sub, err := op(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}
