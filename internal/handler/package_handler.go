package handler

import (
	"net/http"

	"github.com/Eursukkul/coaching-service/internal/dto"
	"github.com/Eursukkul/coaching-service/internal/models"
	"github.com/Eursukkul/coaching-service/internal/service"
	"github.com/labstack/echo/v4"
)

type PackageHandler struct {
	svc service.PackageService
}

func NewPackageHandler(svc service.PackageService) *PackageHandler {
	return &PackageHandler{svc: svc}
}

// RegisterRoutes mounts the catalog on the unauthenticated group and
// package management on admin.
func (h *PackageHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/packages", h.ListPackages)
	public.GET("/packages/:id", h.GetPackage)

	admin.GET("/packages", h.ListAllPackages)
	admin.POST("/packages", h.CreatePackage)
	admin.PUT("/packages/:id", h.UpdatePackage)
	admin.DELETE("/packages/:id", h.DeletePackage)
}

func (h *PackageHandler) ListPackages(c echo.Context) error {
	var category *models.Category
	if q := c.QueryParam("category"); q != "" {
		cat := models.Category(q)
		category = &cat
	}

	pkgs, err := h.svc.ListPackages(c.Request().Context(), category)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toPackageResponses(pkgs))
}

func (h *PackageHandler) GetPackage(c echo.Context) error {
	id, err := parseID(c, "package")
	if err != nil {
		return err
	}
	pkg, err := h.svc.GetPackage(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPackageResponse(pkg))
}

func (h *PackageHandler) ListAllPackages(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	pkgs, err := h.svc.ListAllPackages(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toPackageResponses(pkgs))
}

func (h *PackageHandler) CreatePackage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.PackageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pkg, err := req.ToModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid features")
	}

	if err := h.svc.CreatePackage(c.Request().Context(), actor, pkg); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToPackageResponse(pkg))
}

func (h *PackageHandler) UpdatePackage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "package")
	if err != nil {
		return err
	}
	var req dto.PackageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pkg, err := req.ToModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid features")
	}

	updated, err := h.svc.UpdatePackage(c.Request().Context(), actor, id, pkg)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPackageResponse(updated))
}

func (h *PackageHandler) DeletePackage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "package")
	if err != nil {
		return err
	}
	if err := h.svc.DeletePackage(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toPackageResponses(pkgs []models.Package) []dto.PackageResponse {
	resp := make([]dto.PackageResponse, len(pkgs))
	for i := range pkgs {
		resp[i] = dto.ToPackageResponse(&pkgs[i])
	}
	return resp
}
