package risk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/risk"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/usecase"
	scoringUC "microlend-engine/internal/usecase/scoring"
	"microlend-engine/pkg/id"
)

// defaultAfterDays is the lateness past which an unpaid installment defaults its loan.
const defaultAfterDays = 60

type Usecase struct{ d *usecase.Deps }

func NewUsecase(d *usecase.Deps) *Usecase { return &Usecase{d: d} }

type RaiseInput struct {
	LoanID        string `json:"-"`
	ActorID       string `json:"-"`
	Type          string `json:"type" validate:"required"`
	Reason        string `json:"reason" validate:"required,max=2000"`
	AmountAtIssue int64  `json:"amount_at_issue" validate:"gte=0"`
}

type ResolveInput struct {
	FlagID  string `json:"-"`
	ActorID string `json:"-"`
	Reason  string `json:"reason" validate:"required,max=2000"`
}

type FlagResult struct {
	Flag       *risk.Flag `json:"flag"`
	LoanStatus string     `json:"loan_status"`
	Score      int        `json:"score"`
}

// RaiseFlag records a lender-reported flag. A DEFAULT flag on an active loan
// defaults it in the same transaction.
func (u *Usecase) RaiseFlag(ctx context.Context, in RaiseInput) (*FlagResult, error) {
	t := risk.Type(strings.ToUpper(strings.TrimSpace(in.Type)))
	if !t.Reportable() {
		return nil, risk.ErrUnknownType
	}

	var out *FlagResult
	var events []event.Event
	err := u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ActorID != l.LenderID {
			return loan.ErrNotLender
		}
		now := u.d.Clock()
		f := &risk.Flag{
			FlagID:        id.NewID32(),
			BorrowerID:    l.BorrowerID,
			LoanID:        l.ID,
			LoanPublicID:  l.LoanID,
			Type:          t,
			Origin:        risk.OriginLenderReported,
			Reason:        in.Reason,
			AmountAtIssue: in.AmountAtIssue,
			ReportedBy:    in.ActorID,
			CreatedAt:     now,
		}
		if err := r.RiskFlags.Create(ctx, f); err != nil {
			return err
		}
		u.d.FlagRaised(f, &events)

		if t == risk.TypeDefault && l.Status == loan.StatusActive {
			if err := l.TransitionTo(loan.StatusDefaulted, "lender reported default: "+in.Reason, now); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			u.d.Transitioned(l, event.LoanDefaulted, &events)
		}

		s, err := scoringUC.Recompute(ctx, r, l.BorrowerID, now)
		if err != nil {
			return err
		}
		out = &FlagResult{Flag: f, LoanStatus: string(l.Status), Score: s.Score}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return out, nil
}

// ResolveFlag soft-closes a flag. Only the loan's lender may resolve it.
func (u *Usecase) ResolveFlag(ctx context.Context, in ResolveInput) (*FlagResult, error) {
	var loanID string
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.RiskFlags.GetByFlagID(ctx, in.FlagID)
		if err != nil {
			return err
		}
		loanID = f.LoanPublicID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out *FlagResult
	err = u.d.InLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ActorID != l.LenderID {
			return loan.ErrNotLender
		}
		f, err := r.RiskFlags.GetByFlagID(ctx, in.FlagID)
		if err != nil {
			return err
		}
		now := u.d.Clock()
		if err := f.Resolve(in.Reason, now); err != nil {
			return err
		}
		if err := r.RiskFlags.Save(ctx, f); err != nil {
			return err
		}
		s, err := scoringUC.Recompute(ctx, r, l.BorrowerID, now)
		if err != nil {
			return err
		}
		out = &FlagResult{Flag: f, LoanStatus: string(l.Status), Score: s.Score}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) ListFlags(ctx context.Context, borrowerID string) ([]risk.Flag, error) {
	var out []risk.Flag
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.RiskFlags.ListByBorrower(ctx, borrowerID)
		return err
	})
	if out == nil {
		out = []risk.Flag{}
	}
	return out, err
}

type SweepResult struct {
	Scanned     int      `json:"scanned"`
	FlagsRaised int      `json:"flags_raised"`
	Defaulted   []string `json:"defaulted"`
	Skipped     []string `json:"skipped"`
}

// Sweep walks active loans, escalating lateness flags on unpaid installments
// and defaulting loans with an installment unpaid past 60 days. Loans held by
// a concurrent writer are skipped, not waited on.
func (u *Usecase) Sweep(ctx context.Context) (*SweepResult, error) {
	var ids []string
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		ids, err = r.Loans.ListLoanIDsByStatus(ctx, loan.StatusActive)
		return err
	})
	if err != nil {
		return nil, err
	}

	res := &SweepResult{Defaulted: []string{}, Skipped: []string{}}
	for _, loanID := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		raised, defaulted, err := u.sweepLoan(ctx, loanID)
		switch {
		case errors.Is(err, uow.ErrLoanBusy):
			res.Skipped = append(res.Skipped, loanID)
			continue
		case err != nil:
			return res, fmt.Errorf("sweep loan %s: %w", loanID, err)
		}
		res.Scanned++
		res.FlagsRaised += raised
		if defaulted {
			res.Defaulted = append(res.Defaulted, loanID)
		}
	}
	u.d.Log.InfoContext(ctx, "lateness sweep", "scanned", res.Scanned, "flags", res.FlagsRaised,
		"defaulted", len(res.Defaulted), "skipped", len(res.Skipped))
	return res, nil
}

func (u *Usecase) sweepLoan(ctx context.Context, loanID string) (int, bool, error) {
	var raised int
	var defaulted bool
	var events []event.Event
	err := u.d.TryInLoan(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusActive {
			return nil
		}
		now := u.d.Clock()
		rows, err := r.Installments.Outstanding(ctx, l.ID)
		if err != nil {
			return err
		}
		worst := 0
		reason := ""
		for i := range rows {
			inst := &rows[i]
			days := inst.DaysOverdue(now)
			if days == 0 {
				continue
			}
			f, err := Escalate(ctx, r, l, inst, days, inst.Remaining(), now)
			if err != nil {
				return err
			}
			if f != nil {
				raised++
				u.d.FlagRaised(f, &events)
			}
			if days > worst {
				worst = days
				reason = fmt.Sprintf("installment %d unpaid for %d days", inst.InstallmentNo, days)
			}
		}
		if worst <= defaultAfterDays {
			return nil
		}
		if err := l.TransitionTo(loan.StatusDefaulted, reason, now); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		defaulted = true
		u.d.Transitioned(l, event.LoanDefaulted, &events)
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	u.d.Publish(ctx, events...)
	return raised, defaulted, nil
}
