package disbursement

import (
	"context"
	"errors"

	domainDisbursement "microlend-engine/internal/domain/disbursement"
	"microlend-engine/internal/domain/event"
	domainLoan "microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/usecase"
	"microlend-engine/pkg/id"
)

type Usecase struct{ d *usecase.Deps }

func NewUsecase(d *usecase.Deps) *Usecase { return &Usecase{d: d} }

// Submit records the lender's proof that funds were sent.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*ProofDTO, error) {
	var dto *ProofDTO
	var events []event.Event

	err := u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if in.ActorID != l.LenderID {
			return domainLoan.ErrNotLender
		}
		// State guard: only pending_disbursement accepts a proof
		if l.Status != domainLoan.StatusPendingDisbursement {
			if l.Status.IsTerminal() {
				return domainLoan.ErrLoanClosed
			}
			return domainLoan.ErrInvalidTransition
		}

		if _, err := r.Disbursements.GetByLoanID(ctx, l.ID); err == nil {
			return domainDisbursement.ErrAlreadySubmitted
		} else if !errors.Is(err, domainDisbursement.ErrNotFound) {
			// real query error → surface upward
			return err
		}

		p := &domainDisbursement.Proof{
			ProofID:           id.NewID32(),
			LoanID:            l.ID, // numeric FK
			LenderSubmittedAt: u.d.Clock(),
			Amount:            in.Amount,
			Method:            in.Method,
			Reference:         in.Reference,
			ProofURL:          in.ProofURL,
		}
		if err := r.Disbursements.Create(ctx, p); err != nil {
			return err
		}
		events = append(events, event.New(event.DisbursementSubmitted, l.LoanID, p.LenderSubmittedAt, map[string]any{
			"proof_id": p.ProofID,
			"amount":   p.Amount,
		}))
		dto = toDTO(l, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return dto, nil
}

// Confirm is the borrower acknowledging receipt; the loan becomes active.
func (u *Usecase) Confirm(ctx context.Context, in ConfirmInput) (*ProofDTO, error) {
	var dto *ProofDTO
	var events []event.Event

	err := u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		p, err := u.openProof(ctx, r, l, in.ActorID)
		if err != nil {
			return err
		}
		now := u.d.Clock()
		if err := p.Confirm(now); err != nil {
			return err
		}
		if err := l.TransitionTo(domainLoan.StatusActive, "disbursement confirmed", now); err != nil {
			return err
		}
		if err := r.Disbursements.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.d.Transitioned(l, event.LoanActivated, &events)
		dto = toDTO(l, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return dto, nil
}

// Dispute halts progression; the loan stays pending_disbursement.
func (u *Usecase) Dispute(ctx context.Context, in DisputeInput) (*ProofDTO, error) {
	var dto *ProofDTO
	var events []event.Event

	err := u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		p, err := u.openProof(ctx, r, l, in.ActorID)
		if err != nil {
			return err
		}
		if err := p.Dispute(in.Reason, u.d.Clock()); err != nil {
			return err
		}
		if err := r.Disbursements.Save(ctx, p); err != nil {
			return err
		}
		events = append(events, event.New(event.DisbursementDisputed, l.LoanID, *p.DisputedAt, map[string]any{
			"proof_id": p.ProofID,
			"reason":   p.DisputeReason,
		}))
		dto = toDTO(l, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return dto, nil
}

func (u *Usecase) openProof(ctx context.Context, r uow.Repos, l *domainLoan.Loan, actorID string) (*domainDisbursement.Proof, error) {
	if actorID != l.BorrowerID {
		return nil, domainLoan.ErrNotBorrower
	}
	if l.Status != domainLoan.StatusPendingDisbursement {
		if l.Status.IsTerminal() {
			return nil, domainLoan.ErrLoanClosed
		}
		return nil, domainLoan.ErrInvalidTransition
	}
	p, err := r.Disbursements.GetByLoanID(ctx, l.ID)
	if errors.Is(err, domainDisbursement.ErrNotFound) {
		return nil, domainDisbursement.ErrProofMissing
	}
	return p, err
}

func toDTO(l *domainLoan.Loan, p *domainDisbursement.Proof) *ProofDTO {
	return &ProofDTO{
		ProofID:             p.ProofID,
		LoanID:              l.LoanID, // public id
		LoanStatus:          string(l.Status),
		Amount:              p.Amount,
		Method:              p.Method,
		Reference:           p.Reference,
		ProofURL:            p.ProofURL,
		LenderSubmittedAt:   p.LenderSubmittedAt,
		BorrowerConfirmedAt: p.BorrowerConfirmedAt,
		BorrowerDisputed:    p.BorrowerDisputed,
		DisputeReason:       p.DisputeReason,
	}
}
