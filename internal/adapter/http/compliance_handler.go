package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/usecase/compliance"
)

type ComplianceHandler struct {
	uc  *compliance.Usecase
	log *slog.Logger
}

func NewComplianceHandler(uc *compliance.Usecase, log *slog.Logger) *ComplianceHandler {
	return &ComplianceHandler{uc: uc, log: log}
}

func (h *ComplianceHandler) IssueWarning(c echo.Context) error {
	var req compliance.IssueWarningInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LenderID = c.Param("lender_id")
	req.IssuedBy = actor(c)
	res, err := h.uc.IssueWarning(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *ComplianceHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("lender_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
