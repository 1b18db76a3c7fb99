package scoring

import (
	"context"
	"time"

	"microlend-engine/internal/domain/risk"
	"microlend-engine/internal/domain/scoring"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/usecase"
)

type ScoreDTO struct {
	BorrowerID     string               `json:"borrower_id"`
	Score          int                  `json:"score"`
	OnTimePayments int                  `json:"on_time_payments"`
	LatePayments   int                  `json:"late_payments"`
	Factors        []scoring.Factor     `json:"factors"`
	History        []scoring.MonthPoint `json:"history"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toDTO(s *scoring.BorrowerScore) *ScoreDTO {
	return &ScoreDTO{
		BorrowerID:     s.BorrowerID,
		Score:          s.Score,
		OnTimePayments: s.OnTimePayments,
		LatePayments:   s.LatePayments,
		Factors:        s.Factors,
		History:        s.History,
		UpdatedAt:      s.UpdatedAt,
	}
}

type Usecase struct{ d *usecase.Deps }

func NewUsecase(d *usecase.Deps) *Usecase { return &Usecase{d: d} }

// Get replays the borrower's ledger and materializes the result.
func (u *Usecase) Get(ctx context.Context, borrowerID string) (*ScoreDTO, error) {
	var out *scoring.BorrowerScore
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		s, err := Recompute(ctx, r, borrowerID, u.d.Clock())
		out = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDTO(out), nil
}

// Recompute rebuilds and upserts one borrower's score inside the caller's transaction.
func Recompute(ctx context.Context, r uow.Repos, borrowerID string, now time.Time) (*scoring.BorrowerScore, error) {
	events, err := r.Payments.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	open, err := r.RiskFlags.ListOpenByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	lender := open[:0:0]
	for _, f := range open {
		if f.Origin == risk.OriginLenderReported {
			lender = append(lender, f)
		}
	}
	s := scoring.Snapshot(borrowerID, scoring.Compute(events, lender, now), now)
	if err := r.Scores.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
