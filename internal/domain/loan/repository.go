package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// GetOpenLoanByBorrowerID returns the borrower's newest non-terminal loan, or nil, nil.
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	ListLoanIDsByStatus(ctx context.Context, status Status) ([]string, error)
	Save(ctx context.Context, l *Loan) error
}
