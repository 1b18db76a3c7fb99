package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/usecase/disbursement"
)

type DisbursementHandler struct {
	uc  *disbursement.Usecase
	log *slog.Logger
}

func NewDisbursementHandler(uc *disbursement.Usecase, log *slog.Logger) *DisbursementHandler {
	return &DisbursementHandler{uc: uc, log: log}
}

// Submit records the lender's proof of transfer.
func (h *DisbursementHandler) Submit(c echo.Context) error {
	var req disbursement.SubmitInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = actor(c)
	dto, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Confirm activates the loan on the borrower's confirmation of receipt.
func (h *DisbursementHandler) Confirm(c echo.Context) error {
	dto, err := h.uc.Confirm(c.Request().Context(), disbursement.ConfirmInput{
		LoanID:  c.Param("loan_id"),
		ActorID: actor(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DisbursementHandler) Dispute(c echo.Context) error {
	var req disbursement.DisputeInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = actor(c)
	dto, err := h.uc.Dispute(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
