// Package usecase holds what every engine operation shares: the unit of work,
// the per-loan lock, post-commit publishing, metrics and the clock.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/risk"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/infrastructure/metrics"
)

type Deps struct {
	UoW       uow.UnitOfWork
	Locker    uow.Locker
	Publisher event.Publisher
	Metrics   *metrics.Metrics
	Log       *slog.Logger
	Now       func() time.Time

	LockTTL  time.Duration
	RetryMax int
	// MinPrincipal is the business floor in minor units.
	MinPrincipal int64
}

func (d *Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// InLoan runs fn under the per-loan lock and inside a transaction that has
// already re-read the loan FOR UPDATE. Only lock contention is retried; fn
// never runs twice.
func (d *Deps) InLoan(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return d.inLoan(ctx, loanID, max(d.RetryMax, 0), fn)
}

// TryInLoan is InLoan without retries; a held lock surfaces as uow.ErrLoanBusy.
func (d *Deps) TryInLoan(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return d.inLoan(ctx, loanID, 0, fn)
}

func (d *Deps) inLoan(ctx context.Context, loanID string, retries int, fn func(r uow.Repos, l *loan.Loan) error) error {
	op := func() error {
		release, err := d.Locker.Acquire(ctx, "loan:"+loanID, d.LockTTL)
		if errors.Is(err, uow.ErrLoanBusy) {
			d.Metrics.LoanBusyRetries.Inc()
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		defer release()
		if err := d.UoW.WithinLoanTx(ctx, loanID, fn); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx))
}

// Publish sends committed events. A broker failure is logged and counted;
// the committed state stands.
func (d *Deps) Publish(ctx context.Context, events ...event.Event) {
	if len(events) == 0 {
		return
	}
	if err := d.Publisher.Publish(ctx, events...); err != nil {
		d.Metrics.PublishFailures.Inc()
		d.Log.ErrorContext(ctx, "publish events", "count", len(events), "first", events[0].Name, "err", err)
	}
}

// Transitioned records a lifecycle move for metrics and the event stream.
func (d *Deps) Transitioned(l *loan.Loan, name event.Name, out *[]event.Event) {
	d.Metrics.Transitions.WithLabelValues(string(l.Status)).Inc()
	*out = append(*out, event.New(name, l.LoanID, l.StatusUpdatedAt, map[string]any{
		"status":      l.Status,
		"reason":      l.StatusReason,
		"borrower_id": l.BorrowerID,
		"lender_id":   l.LenderID,
	}))
}

func (d *Deps) FlagRaised(f *risk.Flag, out *[]event.Event) {
	d.Metrics.RiskFlagsRaised.WithLabelValues(string(f.Type), string(f.Origin)).Inc()
	*out = append(*out, event.New(event.RiskFlagRaised, f.BorrowerID, f.CreatedAt, map[string]any{
		"flag_id":        f.FlagID,
		"loan_id":        f.LoanPublicID,
		"type":           f.Type,
		"origin":         f.Origin,
		"installment_no": f.InstallmentNo,
	}))
}
