package mysql

import (
	"context"

	"microlend-engine/internal/domain/paymentproof"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentProofRepository struct{ db *gorm.DB }

func NewPaymentProofRepository(db *gorm.DB) *PaymentProofRepository {
	return &PaymentProofRepository{db: db}
}

func (r *PaymentProofRepository) Create(ctx context.Context, p *paymentproof.Proof) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentProofRepository) GetByProofID(ctx context.Context, proofID string) (*paymentproof.Proof, error) {
	var out paymentproof.Proof
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("proof_id = ?", proofID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, paymentproof.ErrNotFound)
	}
	return &out, nil
}

func (r *PaymentProofRepository) Save(ctx context.Context, p *paymentproof.Proof) error {
	return r.db.WithContext(ctx).Save(p).Error
}
