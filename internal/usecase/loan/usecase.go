package loan

import (
	"context"
	"fmt"
	"time"

	"microlend-engine/internal/domain/amortization"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/schedule"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/usecase"
	complianceUC "microlend-engine/internal/usecase/compliance"
	"microlend-engine/pkg/id"
)

type Usecase struct{ d *usecase.Deps }

func NewUsecase(d *usecase.Deps) *Usecase { return &Usecase{d: d} }

// Create originates a loan. Tracked borrowers go straight to active with a
// persisted schedule; platform borrowers get a pending offer and a preview.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.ActorID != in.LenderID {
		return nil, loan.ErrNotLender
	}
	if in.BorrowerID == in.LenderID {
		return nil, loan.ErrSameParty
	}
	now := u.d.Clock()
	terms := amortization.Terms{
		Principal:               in.Principal,
		BaseRatePercent:         in.BaseRatePercent,
		ExtraRatePerInstallment: in.ExtraRatePerInstallment,
		PaymentType:             amortization.PaymentType(in.PaymentType),
		InstallmentCount:        in.InstallmentCount,
		StartDate:               now,
	}
	quote, err := amortization.Calculate(terms, u.d.MinPrincipal)
	if err != nil {
		return nil, err
	}

	// serializes creations for one borrower so the open-loan check holds
	release, err := u.d.Locker.Acquire(ctx, "borrower:"+in.BorrowerID, u.d.LockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	var out *LoanDTO
	var events []event.Event
	err = u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		if err := complianceUC.CheckCanLend(ctx, r, in.LenderID); err != nil {
			return err
		}
		open, err := r.Loans.GetOpenLoanByBorrowerID(ctx, in.BorrowerID)
		if err != nil {
			return err
		}
		if open != nil {
			return loan.ErrActiveLoanExists
		}

		l := &loan.Loan{
			LoanID:                     id.NewID32(),
			BorrowerID:                 in.BorrowerID,
			LenderID:                   in.LenderID,
			Currency:                   in.Currency,
			Principal:                  in.Principal,
			BaseRatePercent:            in.BaseRatePercent,
			ExtraRatePerInstallment:    in.ExtraRatePerInstallment,
			PaymentType:                terms.PaymentType,
			InstallmentCount:           terms.Count(),
			TotalInterestPercent:       quote.TotalInterestPercent,
			InterestAmount:             quote.InterestAmount,
			TotalAmount:                quote.TotalAmount,
			RequiresBorrowerAcceptance: in.RequiresBorrowerAcceptance,
			Status:                     loan.InitialStatus(in.RequiresBorrowerAcceptance),
			StatusUpdatedAt:            now,
		}
		if l.Status == loan.StatusActive {
			setDates(l, now, quote.EndDate)
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		var rows []schedule.Installment
		if l.Status == loan.StatusActive {
			created := schedule.FromRows(l.ID, quote.Rows)
			if err := r.Installments.CreateBatch(ctx, created); err != nil {
				return err
			}
			for _, c := range created {
				rows = append(rows, *c)
			}
		}

		events = append(events, event.New(event.LoanCreated, l.LoanID, now, map[string]any{
			"borrower_id":  l.BorrowerID,
			"lender_id":    l.LenderID,
			"status":       l.Status,
			"total_amount": l.TotalAmount,
		}))
		u.d.Metrics.Transitions.WithLabelValues(string(l.Status)).Inc()

		if rows == nil {
			out = toDTO(l, previewRows(quote.Rows), now)
			out.SchedulePreview = true
			return nil
		}
		out = toDTO(l, rows, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return out, nil
}

// Get returns the loan with its schedule; overdue is derived at read time.
func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	var out *LoanDTO
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		rows, err := r.Installments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		now := u.d.Clock()
		if len(rows) == 0 && l.Status == loan.StatusPendingOffer {
			q, err := amortization.Calculate(l.Terms(now), 0)
			if err != nil {
				return err
			}
			out = toDTO(l, previewRows(q.Rows), now)
			out.SchedulePreview = true
			return nil
		}
		out = toDTO(l, rows, now)
		return nil
	})
	return out, err
}

// AcceptOffer moves a pending offer to pending_disbursement and materializes
// the schedule from the acceptance date.
func (u *Usecase) AcceptOffer(ctx context.Context, in TransitionInput) (*LoanDTO, error) {
	var out *LoanDTO
	var events []event.Event
	err := u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ActorID != l.BorrowerID {
			return loan.ErrNotBorrower
		}
		now := u.d.Clock()
		if err := l.TransitionTo(loan.StatusPendingDisbursement, "offer accepted", now); err != nil {
			return err
		}
		q, err := amortization.Calculate(l.Terms(now), 0)
		if err != nil {
			return err
		}
		if q.TotalAmount != l.TotalAmount {
			return fmt.Errorf("schedule total %d does not match loan total %d", q.TotalAmount, l.TotalAmount)
		}
		setDates(l, now, q.EndDate)
		created := schedule.FromRows(l.ID, q.Rows)
		if err := r.Installments.CreateBatch(ctx, created); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.d.Transitioned(l, event.LoanOfferAccepted, &events)

		rows := make([]schedule.Installment, 0, len(created))
		for _, c := range created {
			rows = append(rows, *c)
		}
		out = toDTO(l, rows, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return out, nil
}

func (u *Usecase) DeclineOffer(ctx context.Context, in TransitionInput) (*LoanDTO, error) {
	return u.transition(ctx, in, loan.StatusDeclined, event.LoanOfferDeclined, func(l *loan.Loan) error {
		if in.ActorID != l.BorrowerID {
			return loan.ErrNotBorrower
		}
		return nil
	})
}

func (u *Usecase) WriteOff(ctx context.Context, in TransitionInput) (*LoanDTO, error) {
	return u.transition(ctx, in, loan.StatusWrittenOff, event.LoanWrittenOff, func(l *loan.Loan) error {
		if in.ActorID != l.LenderID {
			return loan.ErrNotLender
		}
		return nil
	})
}

func (u *Usecase) transition(ctx context.Context, in TransitionInput, to loan.Status, name event.Name, authorize func(*loan.Loan) error) (*LoanDTO, error) {
	var out *LoanDTO
	var events []event.Event
	err := u.d.InLoan(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if err := authorize(l); err != nil {
			return err
		}
		now := u.d.Clock()
		if err := l.TransitionTo(to, in.Reason, now); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		rows, err := r.Installments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		u.d.Transitioned(l, name, &events)
		out = toDTO(l, rows, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Publish(ctx, events...)
	return out, nil
}

func setDates(l *loan.Loan, start, end time.Time) {
	s, e := start.UTC(), end.UTC()
	l.StartDate, l.EndDate = &s, &e
}

func previewRows(rows []amortization.Row) []schedule.Installment {
	out := make([]schedule.Installment, 0, len(rows))
	for _, p := range schedule.FromRows(0, rows) {
		out = append(out, *p)
	}
	return out
}

func toDTO(l *loan.Loan, rows []schedule.Installment, now time.Time) *LoanDTO {
	dto := &LoanDTO{
		LoanID:                     l.LoanID,
		BorrowerID:                 l.BorrowerID,
		LenderID:                   l.LenderID,
		Currency:                   l.Currency,
		Principal:                  l.Principal,
		BaseRatePercent:            l.BaseRatePercent,
		ExtraRatePerInstallment:    l.ExtraRatePerInstallment,
		PaymentType:                string(l.PaymentType),
		InstallmentCount:           l.InstallmentCount,
		TotalInterestPercent:       l.TotalInterestPercent,
		InterestAmount:             l.InterestAmount,
		TotalAmount:                l.TotalAmount,
		Overpayment:                l.Overpayment,
		RequiresBorrowerAcceptance: l.RequiresBorrowerAcceptance,
		Status:                     string(l.Status),
		StatusReason:               l.StatusReason,
		StartDate:                  l.StartDate,
		EndDate:                    l.EndDate,
		Balance:                    schedule.Balance(rows),
		Schedule:                   make([]InstallmentDTO, 0, len(rows)),
		CreatedAt:                  l.CreatedAt,
	}
	for i := range rows {
		r := &rows[i]
		dto.Schedule = append(dto.Schedule, InstallmentDTO{
			InstallmentNo:      r.InstallmentNo,
			DueDate:            r.DueDate,
			AmountDue:          r.AmountDue,
			PrincipalComponent: r.PrincipalComponent,
			InterestComponent:  r.InterestComponent,
			PaidAmount:         r.PaidAmount,
			Remaining:          r.Remaining(),
			Status:             string(r.EffectiveStatus(now)),
			DaysOverdue:        r.DaysOverdue(now),
			PaidAt:             r.PaidAt,
		})
	}
	return dto
}
