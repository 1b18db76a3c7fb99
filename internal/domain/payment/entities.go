package payment

import (
	"time"

	"microlend-engine/internal/domain/apperr"
)

var ErrInvalidAmount = apperr.New(apperr.ErrValidation, "payment amount must be positive")

type Kind string

const (
	KindInstallment Kind = "installment"
	// KindOverpayment records money left after every installment was paid.
	KindOverpayment Kind = "overpayment"
)

// Event is one immutable row of the payment ledger. A single recorded payment
// fans out into one event per installment it touched.
type Event struct {
	ID            uint64     `gorm:"primaryKey;column:id" json:"-"`
	EventID       string     `gorm:"size:32;uniqueIndex" json:"event_id"`
	PaymentRef    string     `gorm:"size:32;index" json:"payment_ref"`
	LoanID        uint64     `gorm:"not null;index" json:"-"`
	BorrowerID    string     `gorm:"size:32;index:idx_payment_events_borrower" json:"borrower_id"`
	InstallmentID *uint64    `json:"-"`
	InstallmentNo int        `json:"installment_no,omitempty"`
	Kind          Kind       `gorm:"size:16" json:"kind"`
	Amount        int64      `json:"amount"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	DaysLate      int        `json:"days_late"`
	OccurredAt    time.Time  `gorm:"index:idx_payment_events_borrower" json:"occurred_at"`
	Method        string     `gorm:"size:32" json:"method"`
	Reference     string     `gorm:"size:128" json:"reference"`
	Seq           int        `json:"seq"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Event) TableName() string { return "payment_events" }

// Bucket classifies an installment-level event by lateness.
func (e Event) Bucket() Bucket {
	if e.Kind != KindInstallment {
		return BucketOnTime
	}
	return Classify(e.DaysLate)
}
