package payment

import (
	"context"

	"microlend-engine/internal/domain/apperr"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/paymentproof"
	"microlend-engine/internal/domain/uow"
	complianceUC "microlend-engine/internal/usecase/compliance"
	"microlend-engine/pkg/id"
)

// SubmitProof files a borrower's claim of payment for the lender to resolve.
func (u *Usecase) SubmitProof(ctx context.Context, in SubmitProofInput) (*paymentproof.Proof, error) {
	amount, err := ResolveAmount(in.Amount, in.AmountMajor)
	if err != nil {
		return nil, err
	}
	now := u.d.Clock()
	if in.PaymentDate.After(now) {
		return nil, apperr.Validation("payment_date is in the future")
	}

	var out *paymentproof.Proof
	err = u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ActorID != l.BorrowerID {
			return loan.ErrNotBorrower
		}
		if err := l.CheckPayable(); err != nil {
			return err
		}
		p := &paymentproof.Proof{
			ProofID:      id.NewID32(),
			LoanID:       l.ID,
			LoanPublicID: l.LoanID,
			BorrowerID:   l.BorrowerID,
			LenderID:     l.LenderID,
			Amount:       amount,
			PaymentDate:  in.PaymentDate.UTC(),
			Method:       in.Method,
			Reference:    in.Reference,
			ProofURL:     in.ProofURL,
			Status:       paymentproof.StatusPending,
		}
		if err := r.PaymentProofs.Create(ctx, p); err != nil {
			return err
		}
		c, err := complianceUC.Load(ctx, r, l.LenderID)
		if err != nil {
			return err
		}
		c.ProofReceived()
		if err := r.Lenders.Save(ctx, c); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveProof applies the lender's decision. Approval records the payment in
// the same transaction, so a proof is never approved without its payment.
func (u *Usecase) ResolveProof(ctx context.Context, in ResolveProofInput) (*ProofResult, error) {
	decision := paymentproof.Decision(in.Decision)
	if decision != paymentproof.Approve && decision != paymentproof.Reject {
		return nil, paymentproof.ErrBadDecision
	}

	var loanID string
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.PaymentProofs.GetByProofID(ctx, in.ProofID)
		if err != nil {
			return err
		}
		loanID = p.LoanPublicID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out *ProofResult
	var events []event.Event
	err = u.d.InLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ActorID != l.LenderID {
			return loan.ErrNotLender
		}
		p, err := r.PaymentProofs.GetByProofID(ctx, in.ProofID)
		if err != nil {
			return err
		}
		if err := p.Resolve(decision, in.Reason, u.d.Clock()); err != nil {
			return err
		}
		if err := r.PaymentProofs.Save(ctx, p); err != nil {
			return err
		}

		out = &ProofResult{Proof: p}
		if decision == paymentproof.Approve {
			res, evs, err := u.allocate(ctx, r, l, p.Amount, p.PaymentDate, p.Method, p.Reference)
			if err != nil {
				return err
			}
			out.Payment, events = res, evs
		}

		c, err := complianceUC.Load(ctx, r, l.LenderID)
		if err != nil {
			return err
		}
		c.ProofResolved(decision == paymentproof.Approve)
		return r.Lenders.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	if out.Payment != nil {
		u.recorded(sourceProof, out.Payment)
	}
	u.d.Publish(ctx, events...)
	return out, nil
}
