package chelation

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/platform/auth"
)

type patientResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	GetByPublicID(ctx context.Context, publicID string) (*patient.Patient, error)
}

type Handler struct {
	svc      *Service
	patients patientResolver
}

func NewHandler(svc *Service, patients patientResolver) *Handler {
	return &Handler{svc: svc, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/patients/:id/chelation", h.ListByPatient)
	g.POST("/patients/:id/chelation", h.CreateSchedule)
	g.GET("/chelation/:id", h.Get)
	g.POST("/chelation/:id/cancel", h.Cancel)
}

func (h *Handler) resolvePatient(c echo.Context) (*patient.Patient, error) {
	raw := c.Param("id")
	if id, err := uuid.Parse(raw); err == nil {
		return h.patients.GetByID(c.Request().Context(), id)
	}
	return h.patients.GetByPublicID(c.Request().Context(), raw)
}

type createScheduleRequest struct {
	TotalDays int    `json:"total_days"`
	DailyTime string `json:"daily_time"`
	Dose      string `json:"dose"`
}

func (h *Handler) CreateSchedule(c echo.Context) error {
	p, err := h.resolvePatient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	var req createScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sch, err := h.svc.CreateSchedule(c.Request().Context(), p.ID, req.TotalDays, req.DailyTime, req.Dose)
	if err != nil {
		if errors.Is(err, ErrInvalidDuration) || errors.Is(err, ErrInvalidDose) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, sch)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sch, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "schedule not found")
	}
	return c.JSON(http.StatusOK, sch)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sch, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "schedule not found")
		}
		if errors.Is(err, ErrScheduleComplete) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sch)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	p, err := h.resolvePatient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), p.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if c.QueryParam("active") == "true" {
		var active []*Schedule
		for _, sch := range items {
			if sch.Status == StatusActive {
				active = append(active, sch)
			}
		}
		items = active
	}
	return c.JSON(http.StatusOK, items)
}
