package mysql

import (
	"context"
	"errors"

	"microlend-engine/internal/domain/risk"

	"gorm.io/gorm"
)

type RiskFlagRepository struct{ db *gorm.DB }

func NewRiskFlagRepository(db *gorm.DB) *RiskFlagRepository { return &RiskFlagRepository{db: db} }

func (r *RiskFlagRepository) Create(ctx context.Context, f *risk.Flag) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *RiskFlagRepository) Save(ctx context.Context, f *risk.Flag) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *RiskFlagRepository) GetByFlagID(ctx context.Context, flagID string) (*risk.Flag, error) {
	var out risk.Flag
	if err := r.db.WithContext(ctx).Where("flag_id = ?", flagID).First(&out).Error; err != nil {
		return nil, notFound(err, risk.ErrNotFound)
	}
	return &out, nil
}

func (r *RiskFlagRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]risk.Flag, error) {
	var out []risk.Flag
	err := r.db.WithContext(ctx).Where("borrower_id = ?", borrowerID).Order("created_at, id").Find(&out).Error
	return out, err
}

func (r *RiskFlagRepository) ListOpenByBorrower(ctx context.Context, borrowerID string) ([]risk.Flag, error) {
	var out []risk.Flag
	err := r.db.WithContext(ctx).
		Where("borrower_id = ? AND resolved_at IS NULL", borrowerID).
		Order("created_at, id").
		Find(&out).Error
	return out, err
}

func (r *RiskFlagRepository) ListOpenByLoan(ctx context.Context, loanID uint64) ([]risk.Flag, error) {
	var out []risk.Flag
	err := r.db.WithContext(ctx).
		Where("loan_id = ? AND resolved_at IS NULL", loanID).
		Order("created_at, id").
		Find(&out).Error
	return out, err
}

func (r *RiskFlagRepository) OpenSystemFlagForInstallment(ctx context.Context, installmentID uint64) (*risk.Flag, error) {
	var out risk.Flag
	err := r.db.WithContext(ctx).
		Where("installment_id = ? AND origin = ? AND resolved_at IS NULL", installmentID, risk.OriginSystemAuto).
		Order("id DESC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
