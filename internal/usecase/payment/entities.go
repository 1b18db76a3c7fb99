package payment

import (
	"time"

	"microlend-engine/internal/domain/paymentproof"
)

type RecordInput struct {
	LoanID  string `json:"-"`
	ActorID string `json:"-"`
	// Amount is in minor units; AmountMajor is the decimal alternative ("44.67").
	Amount      int64      `json:"amount" validate:"gte=0"`
	AmountMajor string     `json:"amount_major" validate:"omitempty,dec2"`
	OccurredAt  *time.Time `json:"occurred_at"`
	Method      string     `json:"method" validate:"max=32"`
	Reference   string     `json:"reference" validate:"max=128"`
}

type AllocationDTO struct {
	InstallmentNo int    `json:"installment_no"`
	Applied       int64  `json:"applied"`
	Remaining     int64  `json:"remaining"`
	Status        string `json:"status"`
	DaysLate      int    `json:"days_late"`
	Bucket        string `json:"bucket"`
}

type RecordResult struct {
	PaymentRef    string          `json:"payment_ref"`
	LoanID        string          `json:"loan_id"`
	Amount        int64           `json:"amount"`
	SchedulesPaid int             `json:"schedules_paid"`
	LoanCompleted bool            `json:"loan_completed"`
	Overpayment   int64           `json:"overpayment"`
	Balance       int64           `json:"balance"`
	LoanStatus    string          `json:"loan_status"`
	Allocations   []AllocationDTO `json:"allocations"`
	FlagsRaised   []string        `json:"flags_raised"`
	Score         int             `json:"score"`
}

type SubmitProofInput struct {
	LoanID      string    `json:"-"`
	ActorID     string    `json:"-"`
	Amount      int64     `json:"amount" validate:"gte=0"`
	AmountMajor string    `json:"amount_major" validate:"omitempty,dec2"`
	PaymentDate time.Time `json:"payment_date" validate:"required"`
	Method      string    `json:"method" validate:"required,max=32"`
	Reference   string    `json:"reference" validate:"max=128"`
	ProofURL    string    `json:"proof_url" validate:"required,url"`
}

type ResolveProofInput struct {
	ProofID  string `json:"-"`
	ActorID  string `json:"-"`
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason" validate:"max=2000"`
}

type ProofResult struct {
	Proof   *paymentproof.Proof `json:"proof"`
	Payment *RecordResult       `json:"payment,omitempty"`
}
