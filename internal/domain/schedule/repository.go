package schedule

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, rows []*Installment) error
	ListByLoan(ctx context.Context, loanID uint64) ([]Installment, error)
	// Outstanding returns rows with status != paid ordered by installment_no.
	Outstanding(ctx context.Context, loanID uint64) ([]Installment, error)
	Balance(ctx context.Context, loanID uint64) (int64, error)
	// Apply adds amount to one installment and returns the overpayment remainder.
	Apply(ctx context.Context, installmentID uint64, amount int64, at time.Time) (*Installment, int64, error)
}
