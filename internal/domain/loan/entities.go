package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"microlend-engine/internal/domain/amortization"
)

type Status string

const (
	StatusPendingOffer        Status = "pending_offer"
	StatusPendingDisbursement Status = "pending_disbursement"
	StatusActive              Status = "active"
	StatusCompleted           Status = "completed"
	StatusDefaulted           Status = "defaulted"
	StatusWrittenOff          Status = "written_off"
	StatusDeclined            Status = "declined"
)

// TerminalStatuses accept no further payments or transitions.
var TerminalStatuses = []Status{StatusCompleted, StatusDefaulted, StatusWrittenOff, StatusDeclined}

type Loan struct {
	ID                         uint64                   `gorm:"primaryKey;column:id" json:"-"`
	LoanID                     string                   `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID                 string                   `gorm:"size:32;index:idx_loans_borrower_status" json:"borrower_id"`
	LenderID                   string                   `gorm:"size:32;index" json:"lender_id"`
	Currency                   string                   `gorm:"size:3" json:"currency"`
	Principal                  int64                    `json:"principal"`
	BaseRatePercent            decimal.Decimal          `gorm:"type:decimal(6,2)" json:"base_rate_percent"`
	ExtraRatePerInstallment    decimal.Decimal          `gorm:"type:decimal(6,2)" json:"extra_rate_per_installment"`
	PaymentType                amortization.PaymentType `gorm:"size:16" json:"payment_type"`
	InstallmentCount           int                      `json:"installment_count"`
	TotalInterestPercent       decimal.Decimal          `gorm:"type:decimal(8,2)" json:"total_interest_percent"`
	InterestAmount             int64                    `json:"interest_amount"`
	TotalAmount                int64                    `json:"total_amount"`
	Overpayment                int64                    `json:"overpayment"`
	RequiresBorrowerAcceptance bool                     `json:"requires_borrower_acceptance"`
	Status                     Status                   `gorm:"size:32;index:idx_loans_borrower_status" json:"status"`
	StatusReason               string                   `gorm:"type:text" json:"status_reason,omitempty"`
	StartDate                  *time.Time               `json:"start_date,omitempty"`
	EndDate                    *time.Time               `json:"end_date,omitempty"`
	StatusUpdatedAt            time.Time                `json:"status_updated_at"`
	CreatedAt                  time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                  time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Terms rebuilds the amortization input for a schedule starting at start.
func (l *Loan) Terms(start time.Time) amortization.Terms {
	return amortization.Terms{
		Principal:               l.Principal,
		BaseRatePercent:         l.BaseRatePercent,
		ExtraRatePerInstallment: l.ExtraRatePerInstallment,
		PaymentType:             l.PaymentType,
		InstallmentCount:        l.InstallmentCount,
		StartDate:               start,
	}
}

// IsParty reports whether actorID is the loan's borrower or lender.
func (l *Loan) IsParty(actorID string) bool {
	return actorID != "" && (actorID == l.BorrowerID || actorID == l.LenderID)
}
