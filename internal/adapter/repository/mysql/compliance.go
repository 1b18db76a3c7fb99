package mysql

import (
	"context"

	"microlend-engine/internal/domain/compliance"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ComplianceRepository struct{ db *gorm.DB }

func NewComplianceRepository(db *gorm.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

func (r *ComplianceRepository) GetByLenderIDForUpdate(ctx context.Context, lenderID string) (*compliance.LenderCompliance, error) {
	var out compliance.LenderCompliance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lender_id = ?", lenderID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, compliance.ErrNotFound)
	}
	return &out, nil
}

func (r *ComplianceRepository) GetByLenderID(ctx context.Context, lenderID string) (*compliance.LenderCompliance, error) {
	var out compliance.LenderCompliance
	if err := r.db.WithContext(ctx).Where("lender_id = ?", lenderID).First(&out).Error; err != nil {
		return nil, notFound(err, compliance.ErrNotFound)
	}
	return &out, nil
}

// Save inserts on first use and updates afterwards.
func (r *ComplianceRepository) Save(ctx context.Context, c *compliance.LenderCompliance) error {
	if c.ID == 0 {
		return r.db.WithContext(ctx).Create(c).Error
	}
	return r.db.WithContext(ctx).Save(c).Error
}

type WarningRepository struct{ db *gorm.DB }

func NewWarningRepository(db *gorm.DB) *WarningRepository { return &WarningRepository{db: db} }

func (r *WarningRepository) Append(ctx context.Context, w *compliance.Warning) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WarningRepository) ListByLender(ctx context.Context, lenderID string) ([]compliance.Warning, error) {
	var out []compliance.Warning
	err := r.db.WithContext(ctx).Where("lender_id = ?", lenderID).Order("created_at, id").Find(&out).Error
	return out, err
}
