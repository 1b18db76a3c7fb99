package mysql

import (
	"context"

	disbursementDomain "microlend-engine/internal/domain/disbursement"

	"gorm.io/gorm"
)

type DisbursementRepository struct{ db *gorm.DB }

func NewDisbursementRepository(db *gorm.DB) *DisbursementRepository {
	return &DisbursementRepository{db: db}
}

func (r *DisbursementRepository) Create(ctx context.Context, p *disbursementDomain.Proof) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *DisbursementRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*disbursementDomain.Proof, error) {
	var out disbursementDomain.Proof
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).First(&out).Error; err != nil {
		return nil, notFound(err, disbursementDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *DisbursementRepository) Save(ctx context.Context, p *disbursementDomain.Proof) error {
	return r.db.WithContext(ctx).Save(p).Error
}
