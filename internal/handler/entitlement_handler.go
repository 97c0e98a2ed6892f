package handler

import (
	"net/http"

	"github.com/Eursukkul/coaching-service/internal/dto"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

type EntitlementHandler struct {
	svc service.EntitlementService
}

func NewEntitlementHandler(svc service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{svc: svc}
}

func (h *EntitlementHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/entitlements", h.GetEntitlements)
}

// GetEntitlements defaults to the caller; administrators may pass ?user_id=.
func (h *EntitlementHandler) GetEntitlements(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = actor.UserID
	}

	ent, err := h.svc.Entitlements(c.Request().Context(), actor, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEntitlementsResponse(ent))
}
