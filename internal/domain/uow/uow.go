package uow

import (
	"context"
	"time"

	"microlend-engine/internal/domain/apperr"
	"microlend-engine/internal/domain/compliance"
	"microlend-engine/internal/domain/disbursement"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/payment"
	"microlend-engine/internal/domain/paymentproof"
	"microlend-engine/internal/domain/risk"
	"microlend-engine/internal/domain/schedule"
	"microlend-engine/internal/domain/scoring"
)

var ErrLoanBusy = apperr.New(apperr.ErrConflict, "loan is being modified by another request")

type Repos struct {
	Loans         loan.Repository
	Installments  schedule.Repository
	Payments      payment.Repository
	Disbursements disbursement.Repository
	PaymentProofs paymentproof.Repository
	RiskFlags     risk.Repository
	Scores        scoring.Repository
	Lenders       compliance.Repository
	Warnings      compliance.WarningRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}

// Locker serializes writers of one loan across processes. Acquire fails fast
// with ErrLoanBusy when another holder owns the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
