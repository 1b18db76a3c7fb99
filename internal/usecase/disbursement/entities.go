package disbursement

import (
	"time"
)

type SubmitInput struct {
	LoanID    string `json:"-"`
	ActorID   string `json:"-"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,max=32"`
	Reference string `json:"reference" validate:"max=128"`
	ProofURL  string `json:"proof_url" validate:"required,url"`
}

type ConfirmInput struct {
	LoanID  string `json:"-"`
	ActorID string `json:"-"`
}

type DisputeInput struct {
	LoanID  string `json:"-"`
	ActorID string `json:"-"`
	Reason  string `json:"reason" validate:"required,max=2000"`
}

type ProofDTO struct {
	ProofID             string     `json:"proof_id"`
	LoanID              string     `json:"loan_id"`
	LoanStatus          string     `json:"loan_status"`
	Amount              int64      `json:"amount"`
	Method              string     `json:"method"`
	Reference           string     `json:"reference"`
	ProofURL            string     `json:"proof_url"`
	LenderSubmittedAt   time.Time  `json:"lender_submitted_at"`
	BorrowerConfirmedAt *time.Time `json:"borrower_confirmed_at,omitempty"`
	BorrowerDisputed    bool       `json:"borrower_disputed"`
	DisputeReason       string     `json:"dispute_reason,omitempty"`
}
