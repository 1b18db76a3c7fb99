package disbursement

import "context"

type Repository interface {
	// Create a new proof (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, p *Proof) error

	// Get proof by numeric loan ID
	GetByLoanID(ctx context.Context, loanID uint64) (*Proof, error)

	Save(ctx context.Context, p *Proof) error
}
