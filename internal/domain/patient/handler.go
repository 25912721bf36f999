package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hemotrack/hemotrack/internal/platform/auth"
	"github.com/hemotrack/hemotrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/patients", h.List)
	g.GET("/patients/:id", h.Get)
	g.GET("/patients/:id/interval-history", h.IntervalHistory)
	g.POST("/patients", h.Create)
	g.PUT("/patients/:id/interval", h.UpdateInterval)
	g.POST("/patients/:id/interval-proposal", h.ProposeInterval)
}

// resolve accepts either the internal uuid or the public TH-style id.
func (h *Handler) resolve(c echo.Context) (*Patient, error) {
	return resolvePatient(c, h.svc)
}

func resolvePatient(c echo.Context, svc *Service) (*Patient, error) {
	raw := c.Param("id")
	if p, err := svc.GetByPublicID(c.Request().Context(), raw); err == nil {
		return p, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	return svc.Get(c.Request().Context(), id)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type updateIntervalRequest struct {
	Days int    `json:"days"`
	Note string `json:"note"`
}

func (h *Handler) UpdateInterval(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	var req updateIntervalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateInterval(c.Request().Context(), p.ID, req.Days, req.Note)
	if err != nil {
		if errors.Is(err, ErrInvalidInterval) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

type proposeIntervalRequest struct {
	Days int `json:"days"`
}

func (h *Handler) ProposeInterval(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	var req proposeIntervalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.ProposeInterval(c.Request().Context(), p.ID, req.Days)
	if err != nil {
		if errors.Is(err, ErrInvalidInterval) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) IntervalHistory(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	items, err := h.svc.IntervalHistory(c.Request().Context(), p.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
