package mysql

import (
	"context"
	"time"

	"microlend-engine/internal/domain/schedule"

	"gorm.io/gorm"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, rows []*schedule.Installment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *InstallmentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]schedule.Installment, error) {
	var out []schedule.Installment
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("installment_no").Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) Outstanding(ctx context.Context, loanID uint64) ([]schedule.Installment, error) {
	var out []schedule.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ? AND status <> ?", loanID, schedule.StatusPaid).
		Order("installment_no").
		Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) Balance(ctx context.Context, loanID uint64) (int64, error) {
	var b int64
	err := r.db.WithContext(ctx).
		Model(&schedule.Installment{}).
		Select("COALESCE(SUM(amount_due - paid_amount), 0)").
		Where("loan_id = ?", loanID).
		Scan(&b).Error
	return b, err
}

func (r *InstallmentRepository) Apply(ctx context.Context, installmentID uint64, amount int64, at time.Time) (*schedule.Installment, int64, error) {
	var row schedule.Installment
	if err := r.db.WithContext(ctx).First(&row, installmentID).Error; err != nil {
		return nil, 0, notFound(err, schedule.ErrNotFound)
	}
	rest := row.Apply(amount, at)
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, 0, err
	}
	return &row, rest, nil
}
