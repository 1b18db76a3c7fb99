package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/usecase/risk"
	"microlend-engine/internal/usecase/scoring"
)

type RiskHandler struct {
	risk    *risk.Usecase
	scoring *scoring.Usecase
	log     *slog.Logger
}

func NewRiskHandler(r *risk.Usecase, s *scoring.Usecase, log *slog.Logger) *RiskHandler {
	return &RiskHandler{risk: r, scoring: s, log: log}
}

func (h *RiskHandler) RaiseFlag(c echo.Context) error {
	var req risk.RaiseInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = actor(c)
	res, err := h.risk.RaiseFlag(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *RiskHandler) ResolveFlag(c echo.Context) error {
	var req risk.ResolveInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.FlagID = c.Param("flag_id")
	req.ActorID = actor(c)
	res, err := h.risk.ResolveFlag(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RiskHandler) ListFlags(c echo.Context) error {
	flags, err := h.risk.ListFlags(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"flags": flags})
}

// Sweep is triggered by an external scheduler.
func (h *RiskHandler) Sweep(c echo.Context) error {
	res, err := h.risk.Sweep(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RiskHandler) Score(c echo.Context) error {
	dto, err := h.scoring.Get(c.Request().Context(), c.Param("borrower_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
