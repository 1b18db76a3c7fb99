package mysql

import (
	"context"

	"microlend-engine/internal/domain/scoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository struct{ db *gorm.DB }

func NewScoreRepository(db *gorm.DB) *ScoreRepository { return &ScoreRepository{db: db} }

func (r *ScoreRepository) Upsert(ctx context.Context, s *scoring.BorrowerScore) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "borrower_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "on_time_payments", "late_payments", "factors", "history", "updated_at"}),
	}).Create(s).Error
}

func (r *ScoreRepository) GetByBorrowerID(ctx context.Context, borrowerID string) (*scoring.BorrowerScore, error) {
	var out scoring.BorrowerScore
	if err := r.db.WithContext(ctx).Where("borrower_id = ?", borrowerID).First(&out).Error; err != nil {
		return nil, notFound(err, scoring.ErrNotFound)
	}
	return &out, nil
}
