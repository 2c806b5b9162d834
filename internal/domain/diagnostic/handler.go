package diagnostic

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/paulaquitian5/Konoha-Medical-Corps/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/diagnostics", h.CreateDiagnostic)
	api.GET("/diagnostics", h.ListDiagnostics)
	api.GET("/diagnostics/patient/:id", h.ListByPatient)
	api.GET("/diagnostics/patient/:id/latest", h.LatestByPatient)
}

func (h *Handler) CreateDiagnostic(c echo.Context) error {
	var req DiagnoseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	d, err := h.svc.Diagnose(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingPatientID), errors.Is(err, ErrInvalidOverride):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "subject not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) ListDiagnostics(c echo.Context) error {
	page := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	items, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(items) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no diagnostics for this patient")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) LatestByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	d, err := h.svc.LatestByPatient(c.Request().Context(), patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no diagnostics for this patient")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}
