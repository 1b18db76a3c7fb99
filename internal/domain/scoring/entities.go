package scoring

import (
	"context"
	"time"

	"microlend-engine/internal/domain/apperr"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "borrower score not found")

// BorrowerScore is the materialized latest score, one row per borrower.
type BorrowerScore struct {
	ID             uint64       `gorm:"primaryKey;column:id" json:"-"`
	BorrowerID     string       `gorm:"size:32;uniqueIndex" json:"borrower_id"`
	Score          int          `json:"score"`
	OnTimePayments int          `json:"on_time_payments"`
	LatePayments   int          `json:"late_payments"`
	Factors        []Factor     `gorm:"serializer:json" json:"factors"`
	History        []MonthPoint `gorm:"serializer:json" json:"history"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (BorrowerScore) TableName() string { return "borrower_scores" }

// Snapshot builds the row to materialize from a computed result.
func Snapshot(borrowerID string, r Result, now time.Time) *BorrowerScore {
	return &BorrowerScore{
		BorrowerID:     borrowerID,
		Score:          r.Score,
		OnTimePayments: r.OnTimePayments,
		LatePayments:   r.LatePayments,
		Factors:        r.Factors,
		History:        r.History,
		UpdatedAt:      now.UTC(),
	}
}

type Repository interface {
	// Upsert replaces the borrower's row keyed on borrower_id.
	Upsert(ctx context.Context, s *BorrowerScore) error
	GetByBorrowerID(ctx context.Context, borrowerID string) (*BorrowerScore, error)
}
