package disbursementmock

import (
	"context"

	domain "microlend-engine/internal/domain/disbursement"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, p *domain.Proof) error
	GetByLoanIDFn func(ctx context.Context, loanNumericID uint64) (*domain.Proof, error)
	SaveFn        func(ctx context.Context, p *domain.Proof) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Proof) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

// GetByLoanID defaults to domain.ErrNotFound so a bare mock reads as "no proof yet".
func (m *Repo) GetByLoanID(ctx context.Context, loanNumericID uint64) (*domain.Proof, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanNumericID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, p *domain.Proof) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
