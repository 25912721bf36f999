package reporting

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hemotrack/hemotrack/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard", auth.RequireRole("admin", "physician", "nurse"))
	g.GET("/summary", h.Summary)
	g.GET("/upcoming", h.Upcoming)
	g.GET("/week", h.Week)
}

func (h *Handler) Summary(c echo.Context) error {
	sum, err := h.svc.Summarize(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) Upcoming(c echo.Context) error {
	items, err := h.svc.UpcomingAppointments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Week(c echo.Context) error {
	days, err := h.svc.WeekSchedule(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, days)
}
