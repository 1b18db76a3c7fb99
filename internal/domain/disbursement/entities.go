package disbursement

import (
	"time"

	"microlend-engine/internal/domain/apperr"
)

var (
	ErrNotFound         = apperr.New(apperr.ErrNotFound, "disbursement proof not found")
	ErrAlreadySubmitted = apperr.New(apperr.ErrConflict, "disbursement proof already submitted")
	ErrDisputed         = apperr.New(apperr.ErrInvalidState, "disbursement is under dispute")
	ErrAlreadyConfirmed = apperr.New(apperr.ErrInvalidState, "disbursement already confirmed")
	ErrProofMissing     = apperr.New(apperr.ErrInvalidState, "lender has not submitted disbursement proof")
)

// Proof records the lender's claim that funds were sent and the borrower's answer.
// One per loan (unique on loan_id).
type Proof struct {
	ID                  uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ProofID             string     `gorm:"column:proof_id;size:32;not null;uniqueIndex" json:"proof_id"`
	LoanID              uint64     `gorm:"column:loan_id;not null;uniqueIndex:ux_disbursement_proofs_loan" json:"-"`
	LenderSubmittedAt   time.Time  `gorm:"column:lender_submitted_at;not null" json:"lender_submitted_at"`
	Amount              int64      `gorm:"column:amount;not null" json:"amount"`
	Method              string     `gorm:"column:method;size:32" json:"method"`
	Reference           string     `gorm:"column:reference;size:128" json:"reference"`
	ProofURL            string     `gorm:"column:proof_url;type:text" json:"proof_url"`
	BorrowerConfirmedAt *time.Time `gorm:"column:borrower_confirmed_at" json:"borrower_confirmed_at,omitempty"`
	BorrowerDisputed    bool       `gorm:"column:borrower_disputed" json:"borrower_disputed"`
	DisputeReason       string     `gorm:"column:dispute_reason;type:text" json:"dispute_reason,omitempty"`
	DisputedAt          *time.Time `gorm:"column:disputed_at" json:"disputed_at,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Proof) TableName() string { return "disbursement_proofs" }

// Confirm closes the proof on the borrower's side.
func (p *Proof) Confirm(now time.Time) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	at := now.UTC()
	p.BorrowerConfirmedAt = &at
	return nil
}

// Dispute halts automatic progression until resolved outside the engine.
func (p *Proof) Dispute(reason string, now time.Time) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	at := now.UTC()
	p.BorrowerDisputed = true
	p.DisputeReason = reason
	p.DisputedAt = &at
	return nil
}

func (p *Proof) checkOpen() error {
	switch {
	case p.LenderSubmittedAt.IsZero():
		return ErrProofMissing
	case p.BorrowerConfirmedAt != nil:
		return ErrAlreadyConfirmed
	case p.BorrowerDisputed:
		return ErrDisputed
	}
	return nil
}
