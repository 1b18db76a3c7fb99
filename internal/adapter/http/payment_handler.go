package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/usecase/payment"
)

type PaymentHandler struct {
	uc  *payment.Usecase
	log *slog.Logger
}

func NewPaymentHandler(uc *payment.Usecase, log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

func (h *PaymentHandler) Record(c echo.Context) error {
	var req payment.RecordInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = actor(c)
	res, err := h.uc.Record(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) SubmitProof(c echo.Context) error {
	var req payment.SubmitProofInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	req.ActorID = actor(c)
	p, err := h.uc.SubmitProof(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) ResolveProof(c echo.Context) error {
	var req payment.ResolveProofInput
	if ok, err := bind(c, &req); !ok {
		return err
	}
	req.ProofID = c.Param("proof_id")
	req.ActorID = actor(c)
	res, err := h.uc.ResolveProof(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
