package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/infrastructure/metrics"
)

type Handler struct{ m *metrics.Metrics }

func NewHandler(m *metrics.Metrics) *Handler { return &Handler{m: m} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) Metrics() echo.HandlerFunc { return echo.WrapHandler(h.m.Handler()) }
