package compliance

import "context"

type Repository interface {
	// GetByLenderIDForUpdate locks the row; returns ErrNotFound when the lender has none yet.
	GetByLenderIDForUpdate(ctx context.Context, lenderID string) (*LenderCompliance, error)
	GetByLenderID(ctx context.Context, lenderID string) (*LenderCompliance, error)
	Save(ctx context.Context, c *LenderCompliance) error
}

type WarningRepository interface {
	Append(ctx context.Context, w *Warning) error
	ListByLender(ctx context.Context, lenderID string) ([]Warning, error)
}
