package risk

import "context"

type Repository interface {
	Create(ctx context.Context, f *Flag) error
	Save(ctx context.Context, f *Flag) error
	GetByFlagID(ctx context.Context, flagID string) (*Flag, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]Flag, error)
	ListOpenByBorrower(ctx context.Context, borrowerID string) ([]Flag, error)
	ListOpenByLoan(ctx context.Context, loanID uint64) ([]Flag, error)
	// OpenSystemFlagForInstallment returns nil, nil when none is open.
	OpenSystemFlagForInstallment(ctx context.Context, installmentID uint64) (*Flag, error)
}
