package paymentproof

import (
	"time"

	"microlend-engine/internal/domain/apperr"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

var (
	ErrNotFound        = apperr.New(apperr.ErrNotFound, "payment proof not found")
	ErrAlreadyResolved = apperr.New(apperr.ErrInvalidState, "payment proof already resolved")
	ErrBadDecision     = apperr.New(apperr.ErrValidation, "decision must be approve or reject")
)

// Proof is a borrower's claim of a repayment, awaiting the lender's decision.
type Proof struct {
	ID              uint64     `gorm:"primaryKey;column:id" json:"-"`
	ProofID         string     `gorm:"size:32;uniqueIndex" json:"proof_id"`
	LoanID          uint64     `gorm:"not null;index" json:"-"`
	LoanPublicID    string     `gorm:"size:32" json:"loan_id"`
	BorrowerID      string     `gorm:"size:32" json:"borrower_id"`
	LenderID        string     `gorm:"size:32;index" json:"lender_id"`
	Amount          int64      `json:"amount"`
	PaymentDate     time.Time  `json:"payment_date"`
	Method          string     `gorm:"size:32" json:"method"`
	Reference       string     `gorm:"size:128" json:"reference"`
	ProofURL        string     `gorm:"type:text" json:"proof_url"`
	Status          Status     `gorm:"size:16;index" json:"status"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (Proof) TableName() string { return "payment_proofs" }

// Resolve applies the lender's decision to a pending proof.
func (p *Proof) Resolve(d Decision, reason string, now time.Time) error {
	if p.Status != StatusPending {
		return ErrAlreadyResolved
	}
	switch d {
	case Approve:
		p.Status = StatusApproved
	case Reject:
		p.Status = StatusRejected
		p.RejectionReason = reason
	default:
		return ErrBadDecision
	}
	at := now.UTC()
	p.ResolvedAt = &at
	return nil
}
