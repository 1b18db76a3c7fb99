package mysql

import (
	"context"

	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db, which may be a transaction.
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:         &LoanRepository{db: db},
		Installments:  &InstallmentRepository{db: db},
		Payments:      &PaymentRepository{db: db},
		Disbursements: &DisbursementRepository{db: db},
		PaymentProofs: &PaymentProofRepository{db: db},
		RiskFlags:     &RiskFlagRepository{db: db},
		Scores:        &ScoreRepository{db: db},
		Lenders:       &ComplianceRepository{db: db},
		Warnings:      &WarningRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
