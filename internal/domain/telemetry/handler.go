package telemetry

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/telemetry", h.IngestTelemetry)
	api.GET("/telemetry/:missionId", h.ListByMission)
}

type listResponse struct {
	Total int       `json:"total"`
	Data  []*Record `json:"data"`
}

func (h *Handler) IngestTelemetry(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.svc.Ingest(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingPatientID):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrPatientNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "subject not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListByMission(c echo.Context) error {
	missionID := c.Param("missionId")

	records, err := h.svc.ListByMission(c.Request().Context(), missionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// The dashboard treats an unknown mission the same as one with no
	// records yet.
	if len(records) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no telemetry records for this mission")
	}
	return c.JSON(http.StatusOK, listResponse{Total: len(records), Data: records})
}
