package payment

import "context"

// Repository is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, events []*Event) error
	ListByLoan(ctx context.Context, loanID uint64) ([]Event, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]Event, error)
}
