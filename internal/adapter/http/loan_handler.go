package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/usecase/loan"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *slog.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *slog.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loan.CreateLoanInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.ActorID = actor(c)
	dto, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Accept(c echo.Context) error   { return h.transition(c, h.uc.AcceptOffer) }
func (h *LoanHandler) Decline(c echo.Context) error  { return h.transition(c, h.uc.DeclineOffer) }
func (h *LoanHandler) WriteOff(c echo.Context) error { return h.transition(c, h.uc.WriteOff) }

func (h *LoanHandler) transition(c echo.Context, op func(ctx context.Context, in loan.TransitionInput) (*loan.LoanDTO, error)) error {
	var req loan.TransitionInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = actor(c)
	dto, err := op(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
