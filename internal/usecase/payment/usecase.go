package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"microlend-engine/internal/domain/apperr"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/payment"
	"microlend-engine/internal/domain/schedule"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/usecase"
	riskUC "microlend-engine/internal/usecase/risk"
	scoringUC "microlend-engine/internal/usecase/scoring"
	"microlend-engine/pkg/id"
	"microlend-engine/pkg/money"
)

const (
	sourceDirect = "direct"
	sourceProof  = "proof"
)

type Usecase struct{ d *usecase.Deps }

func NewUsecase(d *usecase.Deps) *Usecase { return &Usecase{d: d} }

// ResolveAmount picks the minor-unit amount from either representation.
func ResolveAmount(minor int64, major string) (int64, error) {
	if major != "" {
		dec, err := decimal.NewFromString(major)
		if err != nil {
			return 0, apperr.Validation("amount_major must be a decimal string")
		}
		m, err := money.ToMinor(dec)
		if err != nil {
			return 0, apperr.Validation(err.Error())
		}
		if minor != 0 && minor != m {
			return 0, apperr.Validation("amount and amount_major disagree")
		}
		minor = m
	}
	if minor <= 0 {
		return 0, payment.ErrInvalidAmount
	}
	return minor, nil
}

// Record applies a payment to the loan's outstanding installments, oldest first.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*RecordResult, error) {
	amount, err := ResolveAmount(in.Amount, in.AmountMajor)
	if err != nil {
		return nil, err
	}
	now := u.d.Clock()
	at := now
	if in.OccurredAt != nil {
		at = in.OccurredAt.UTC()
		if at.After(now) {
			return nil, apperr.Validation("occurred_at is in the future")
		}
	}

	var out *RecordResult
	var events []event.Event
	err = u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.IsParty(in.ActorID) {
			return loan.ErrNotParty
		}
		res, evs, err := u.allocate(ctx, r, l, amount, at, in.Method, in.Reference)
		out, events = res, evs
		return err
	})
	if err != nil {
		return nil, err
	}
	u.recorded(sourceDirect, out)
	u.d.Publish(ctx, events...)
	return out, nil
}

// allocate is the waterfall. It must run inside the loan's locked transaction;
// any error rolls back every write it made.
func (u *Usecase) allocate(ctx context.Context, r uow.Repos, l *loan.Loan, amount int64, at time.Time, method, reference string) (*RecordResult, []event.Event, error) {
	if err := l.CheckPayable(); err != nil {
		return nil, nil, err
	}
	now := u.d.Clock()
	rows, err := r.Installments.Outstanding(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}

	res := &RecordResult{
		PaymentRef:  id.NewID32(),
		LoanID:      l.LoanID,
		Amount:      amount,
		Allocations: []AllocationDTO{},
		FlagsRaised: []string{},
	}
	var events []event.Event
	var ledger []*payment.Event
	left := amount

	for i := range rows {
		if left == 0 {
			break
		}
		row := rows[i]
		before := row.Remaining()
		updated, rest, err := r.Installments.Apply(ctx, row.ID, left, at)
		if err != nil {
			return nil, nil, err
		}
		applied := left - rest
		left = rest

		days := schedule.DaysBetween(row.DueDate, at)
		due := row.DueDate
		instID := row.ID
		ev := &payment.Event{
			EventID:       id.NewID32(),
			PaymentRef:    res.PaymentRef,
			LoanID:        l.ID,
			BorrowerID:    l.BorrowerID,
			InstallmentID: &instID,
			InstallmentNo: row.InstallmentNo,
			Kind:          payment.KindInstallment,
			Amount:        applied,
			DueDate:       &due,
			DaysLate:      days,
			OccurredAt:    at,
			Method:        method,
			Reference:     reference,
			Seq:           len(ledger),
		}
		ledger = append(ledger, ev)

		if updated.Status == schedule.StatusPaid {
			res.SchedulesPaid++
		}
		res.Allocations = append(res.Allocations, AllocationDTO{
			InstallmentNo: row.InstallmentNo,
			Applied:       applied,
			Remaining:     updated.Remaining(),
			Status:        string(updated.Status),
			DaysLate:      days,
			Bucket:        string(ev.Bucket()),
		})

		if days > 0 {
			f, err := riskUC.Escalate(ctx, r, l, updated, days, before, now)
			if err != nil {
				return nil, nil, err
			}
			if f != nil {
				res.FlagsRaised = append(res.FlagsRaised, f.FlagID)
				u.d.FlagRaised(f, &events)
			}
		}
	}

	if left > 0 {
		res.Overpayment = left
		l.Overpayment += left
		ledger = append(ledger, &payment.Event{
			EventID:    id.NewID32(),
			PaymentRef: res.PaymentRef,
			LoanID:     l.ID,
			BorrowerID: l.BorrowerID,
			Kind:       payment.KindOverpayment,
			Amount:     left,
			OccurredAt: at,
			Method:     method,
			Reference:  reference,
			Seq:        len(ledger),
		})
	}
	if err := r.Payments.Append(ctx, ledger); err != nil {
		return nil, nil, err
	}

	balance, err := r.Installments.Balance(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}
	res.Balance = balance
	events = append(events, event.New(event.PaymentRecorded, l.LoanID, at, map[string]any{
		"payment_ref":    res.PaymentRef,
		"borrower_id":    l.BorrowerID,
		"amount":         amount,
		"schedules_paid": res.SchedulesPaid,
		"overpayment":    res.Overpayment,
		"balance":        balance,
	}))

	if l.CompleteIfSettled(balance, now) {
		res.LoanCompleted = true
		if _, err := riskUC.Clear(ctx, r, l, now); err != nil {
			return nil, nil, err
		}
		u.d.Transitioned(l, event.LoanCompleted, &events)
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return nil, nil, err
	}

	s, err := scoringUC.Recompute(ctx, r, l.BorrowerID, now)
	if err != nil {
		return nil, nil, err
	}
	res.Score = s.Score
	res.LoanStatus = string(l.Status)
	return res, events, nil
}

func (u *Usecase) recorded(source string, res *RecordResult) {
	m := u.d.Metrics
	m.PaymentsRecorded.WithLabelValues(source).Inc()
	m.AmountAllocated.Add(float64(res.Amount - res.Overpayment))
	if res.Overpayment > 0 {
		m.Overpayments.Add(float64(res.Overpayment))
	}
}
