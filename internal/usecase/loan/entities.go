package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	ActorID                    string          `json:"-"`
	BorrowerID                 string          `json:"borrower_id" validate:"required,hex32"`
	LenderID                   string          `json:"lender_id" validate:"required,hex32"`
	Currency                   string          `json:"currency" validate:"required,len=3,alpha"`
	Principal                  int64           `json:"principal" validate:"required,gt=0"`
	BaseRatePercent            decimal.Decimal `json:"base_rate_percent"`
	ExtraRatePerInstallment    decimal.Decimal `json:"extra_rate_per_installment"`
	PaymentType                string          `json:"payment_type" validate:"required,oneof=once_off installments"`
	InstallmentCount           int             `json:"installment_count" validate:"gte=0,lte=12"`
	RequiresBorrowerAcceptance bool            `json:"requires_borrower_acceptance"`
}

type TransitionInput struct {
	LoanID  string `json:"-"`
	ActorID string `json:"-"`
	Reason  string `json:"reason" validate:"max=2000"`
}

type InstallmentDTO struct {
	InstallmentNo      int        `json:"installment_no"`
	DueDate            time.Time  `json:"due_date"`
	AmountDue          int64      `json:"amount_due"`
	PrincipalComponent int64      `json:"principal_component"`
	InterestComponent  int64      `json:"interest_component"`
	PaidAmount         int64      `json:"paid_amount"`
	Remaining          int64      `json:"remaining"`
	Status             string     `json:"status"`
	DaysOverdue        int        `json:"days_overdue"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
}

type LoanDTO struct {
	LoanID                     string          `json:"loan_id"`
	BorrowerID                 string          `json:"borrower_id"`
	LenderID                   string          `json:"lender_id"`
	Currency                   string          `json:"currency"`
	Principal                  int64           `json:"principal"`
	BaseRatePercent            decimal.Decimal `json:"base_rate_percent"`
	ExtraRatePerInstallment    decimal.Decimal `json:"extra_rate_per_installment"`
	PaymentType                string          `json:"payment_type"`
	InstallmentCount           int             `json:"installment_count"`
	TotalInterestPercent       decimal.Decimal `json:"total_interest_percent"`
	InterestAmount             int64           `json:"interest_amount"`
	TotalAmount                int64           `json:"total_amount"`
	Overpayment                int64           `json:"overpayment"`
	RequiresBorrowerAcceptance bool            `json:"requires_borrower_acceptance"`
	Status                     string          `json:"status"`
	StatusReason               string          `json:"status_reason,omitempty"`
	StartDate                  *time.Time      `json:"start_date,omitempty"`
	EndDate                    *time.Time      `json:"end_date,omitempty"`
	Balance                    int64           `json:"balance"`
	// SchedulePreview is set while the offer is pending and no rows exist yet.
	SchedulePreview bool             `json:"schedule_preview"`
	Schedule        []InstallmentDTO `json:"schedule"`
	CreatedAt       time.Time        `json:"created_at"`
}
