package risk

import (
	"context"
	"fmt"
	"time"

	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/risk"
	"microlend-engine/internal/domain/schedule"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/pkg/id"
)

// Escalate raises a SYSTEM_AUTO flag for an installment that is daysLate, or
// upgrades the open one. It returns nil when nothing changed. The superseded
// flag is resolved, never deleted.
func Escalate(ctx context.Context, r uow.Repos, l *loan.Loan, inst *schedule.Installment, daysLate int, amountAtIssue int64, now time.Time) (*risk.Flag, error) {
	next, ok := risk.TypeForDaysLate(daysLate)
	if !ok {
		return nil, nil
	}
	current, err := r.RiskFlags.OpenSystemFlagForInstallment(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if !risk.Escalates(current, next) {
		return nil, nil
	}
	if current != nil {
		if err := current.Resolve("escalated to "+string(next), now); err != nil {
			return nil, err
		}
		if err := r.RiskFlags.Save(ctx, current); err != nil {
			return nil, err
		}
	}

	instID := inst.ID
	f := &risk.Flag{
		FlagID:        id.NewID32(),
		BorrowerID:    l.BorrowerID,
		LoanID:        l.ID,
		LoanPublicID:  l.LoanID,
		InstallmentID: &instID,
		InstallmentNo: inst.InstallmentNo,
		Type:          next,
		Origin:        risk.OriginSystemAuto,
		Reason:        fmt.Sprintf("installment %d is %d days late", inst.InstallmentNo, daysLate),
		AmountAtIssue: amountAtIssue,
		CreatedAt:     now.UTC(),
	}
	if err := r.RiskFlags.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Clear resolves the loan's open SYSTEM_AUTO flags and appends a CLEARED record.
// It returns nil when the loan had nothing to clear.
func Clear(ctx context.Context, r uow.Repos, l *loan.Loan, now time.Time) (*risk.Flag, error) {
	open, err := r.RiskFlags.ListOpenByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	cleared := 0
	for i := range open {
		f := &open[i]
		if f.Origin != risk.OriginSystemAuto {
			continue
		}
		if err := f.Resolve("loan "+string(l.Status), now); err != nil {
			return nil, err
		}
		if err := r.RiskFlags.Save(ctx, f); err != nil {
			return nil, err
		}
		cleared++
	}
	if cleared == 0 {
		return nil, nil
	}

	at := now.UTC()
	rec := &risk.Flag{
		FlagID:           id.NewID32(),
		BorrowerID:       l.BorrowerID,
		LoanID:           l.ID,
		LoanPublicID:     l.LoanID,
		Type:             risk.TypeCleared,
		Origin:           risk.OriginSystemAuto,
		Reason:           fmt.Sprintf("%d lateness flags cleared on completion", cleared),
		CreatedAt:        at,
		ResolvedAt:       &at,
		ResolutionReason: "clearance record",
	}
	if err := r.RiskFlags.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
