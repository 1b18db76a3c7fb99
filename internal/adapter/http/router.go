package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"microlend-engine/pkg/id"
)

type Handlers struct {
	Base         *Handler
	Loans        *LoanHandler
	Disbursement *DisbursementHandler
	Payments     *PaymentHandler
	Risk         *RiskHandler
	Compliance   *ComplianceHandler
}

// Register mounts the engine routes. mw guards everything except /health and /metrics.
func Register(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Base.Health)
	e.GET("/metrics", h.Base.Metrics())

	g := e.Group("", append(mw, idParams)...)

	g.POST("/loans", h.Loans.CreateLoan)
	g.GET("/loans/:loan_id", h.Loans.GetLoan)
	g.POST("/loans/:loan_id/accept", h.Loans.Accept)
	g.POST("/loans/:loan_id/decline", h.Loans.Decline)
	g.POST("/loans/:loan_id/write-off", h.Loans.WriteOff)

	g.POST("/loans/:loan_id/disbursement", h.Disbursement.Submit)
	g.POST("/loans/:loan_id/disbursement/confirm", h.Disbursement.Confirm)
	g.POST("/loans/:loan_id/disbursement/dispute", h.Disbursement.Dispute)

	g.POST("/loans/:loan_id/payments", h.Payments.Record)
	g.POST("/loans/:loan_id/payment-proofs", h.Payments.SubmitProof)
	g.POST("/payment-proofs/:proof_id/resolve", h.Payments.ResolveProof)

	g.POST("/loans/:loan_id/risk-flags", h.Risk.RaiseFlag)
	g.POST("/risk-flags/:flag_id/resolve", h.Risk.ResolveFlag)
	g.GET("/borrowers/:borrower_id/risk-flags", h.Risk.ListFlags)
	g.GET("/borrowers/:borrower_id/score", h.Risk.Score)
	g.POST("/risk/sweep", h.Risk.Sweep)

	g.POST("/lenders/:lender_id/warnings", h.Compliance.IssueWarning)
	g.GET("/lenders/:lender_id/compliance", h.Compliance.Get)
}

// idParams rejects path ids that could never have been issued.
func idParams(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		for _, name := range c.ParamNames() {
			if strings.HasSuffix(name, "_id") && !id.IsID32(c.Param(name)) {
				return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
					Error:   "validation failed",
					Details: []FieldError{{Field: name, Message: "must be 32-char lowercase hex"}},
				})
			}
		}
		return next(c)
	}
}
