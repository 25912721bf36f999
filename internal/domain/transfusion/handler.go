package transfusion

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/platform/auth"
	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

// DefaultUpcomingWindowDays matches the dashboard's week view.
const DefaultUpcomingWindowDays = 7

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
	g.GET("/schedule/overdue", h.Overdue)
	g.GET("/schedule/upcoming", h.Upcoming)
	g.GET("/schedule/day/:date", h.EntriesForDay)
	g.GET("/entries/:id", h.GetEntry)
	g.POST("/entries/:id/advance", h.AdvanceStage)
	g.POST("/entries/:id/stop", h.StopCycle)
	g.GET("/patients/:id/cycle", h.ActiveCycle)
	g.GET("/patients/:id/entries", h.PatientEntries)
	g.GET("/patients/:id/records", h.PatientRecords)
}

// resolveEntry accepts either the internal uuid or the public ST-style id.
func (h *Handler) resolveEntry(c echo.Context) (*Entry, error) {
	raw := c.Param("id")
	if id, err := uuid.Parse(raw); err == nil {
		return h.svc.Get(c.Request().Context(), id)
	}
	return h.svc.GetByPublicID(c.Request().Context(), raw)
}

func (h *Handler) resolvePatient(c echo.Context) (*patient.Patient, error) {
	raw := c.Param("id")
	if id, err := uuid.Parse(raw); err == nil {
		return h.patients.GetByID(c.Request().Context(), id)
	}
	return h.patients.GetByPublicID(c.Request().Context(), raw)
}

func (h *Handler) Overdue(c echo.Context) error {
	items, err := h.svc.Overdue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Upcoming(c echo.Context) error {
	days := DefaultUpcomingWindowDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		days = n
	}
	ref := calendar.Today(h.svc.clock)
	if raw := c.QueryParam("from"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		ref = d
	}
	items, err := h.svc.Upcoming(c.Request().Context(), days, ref)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) EntriesForDay(c echo.Context) error {
	d, err := calendar.ParseDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	items, err := h.svc.EntriesForDay(c.Request().Context(), d)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetEntry(c echo.Context) error {
	e, err := h.resolveEntry(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) AdvanceStage(c echo.Context) error {
	e, err := h.resolveEntry(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}
	var details RecordDetails
	if err := c.Bind(&details); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.AdvanceStage(c.Request().Context(), e.ID, &details)
	if err != nil {
		if errors.Is(err, ErrCycleComplete) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) StopCycle(c echo.Context) error {
	e, err := h.resolveEntry(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}
	updated, err := h.svc.StopCycle(c.Request().Context(), e.ID)
	if err != nil {
		if errors.Is(err, ErrCycleComplete) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ActiveCycle(c echo.Context) error {
	p, err := h.resolvePatient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	plan, err := h.svc.ActiveCycleFor(c.Request().Context(), p.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if plan == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no active cycle")
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) PatientEntries(c echo.Context) error {
	p, err := h.resolvePatient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), p.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) PatientRecords(c echo.Context) error {
	p, err := h.resolvePatient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	items, err := h.svc.Records(c.Request().Context(), p.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
