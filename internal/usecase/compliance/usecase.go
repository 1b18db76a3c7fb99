package compliance

import (
	"context"
	"errors"
	"strings"

	"microlend-engine/internal/domain/compliance"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/usecase"
	"microlend-engine/pkg/id"
)

type Usecase struct{ d *usecase.Deps }

func NewUsecase(d *usecase.Deps) *Usecase { return &Usecase{d: d} }

type IssueWarningInput struct {
	LenderID    string `json:"-"`
	IssuedBy    string `json:"-"`
	Type        string `json:"type" validate:"required,max=64"`
	Severity    string `json:"severity" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
}

type WarningResult struct {
	Warning    *compliance.Warning          `json:"warning"`
	Compliance *compliance.LenderCompliance `json:"compliance"`
}

// Load returns the lender's row locked for update, or a fresh one when the
// lender has none yet. The caller saves it.
func Load(ctx context.Context, r uow.Repos, lenderID string) (*compliance.LenderCompliance, error) {
	c, err := r.Lenders.GetByLenderIDForUpdate(ctx, lenderID)
	if errors.Is(err, compliance.ErrNotFound) {
		return compliance.New(lenderID), nil
	}
	return c, err
}

// CheckCanLend rejects loan creation by suspended or banned lenders.
func CheckCanLend(ctx context.Context, r uow.Repos, lenderID string) error {
	c, err := r.Lenders.GetByLenderID(ctx, lenderID)
	if errors.Is(err, compliance.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !c.Status.CanLend() {
		return compliance.ErrLenderRestricted
	}
	return nil
}

func (u *Usecase) IssueWarning(ctx context.Context, in IssueWarningInput) (*WarningResult, error) {
	sev := compliance.Severity(strings.ToLower(strings.TrimSpace(in.Severity)))
	var out *WarningResult
	var events []event.Event

	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		c, err := Load(ctx, r, in.LenderID)
		if err != nil {
			return err
		}
		points, err := c.ApplyWarning(sev)
		if err != nil {
			return err
		}
		if err := r.Lenders.Save(ctx, c); err != nil {
			return err
		}
		w := &compliance.Warning{
			WarningID:   id.NewID32(),
			LenderID:    in.LenderID,
			Type:        in.Type,
			Severity:    sev,
			Title:       in.Title,
			Description: in.Description,
			Points:      points,
			ScoreAfter:  c.ComplianceScore,
			StatusAfter: c.Status,
			IssuedBy:    in.IssuedBy,
			CreatedAt:   u.d.Clock(),
		}
		if err := r.Warnings.Append(ctx, w); err != nil {
			return err
		}
		events = append(events, event.New(event.LenderWarningIssued, in.LenderID, w.CreatedAt, map[string]any{
			"warning_id":       w.WarningID,
			"severity":         sev,
			"compliance_score": c.ComplianceScore,
			"status":           c.Status,
		}))
		out = &WarningResult{Warning: w, Compliance: c}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.d.Metrics.WarningsIssued.WithLabelValues(string(sev)).Inc()
	u.d.Publish(ctx, events...)
	return out, nil
}

type ComplianceDTO struct {
	*compliance.LenderCompliance
	Warnings []compliance.Warning `json:"warnings"`
}

// Get returns the lender's standing; a lender never warned is in good standing.
func (u *Usecase) Get(ctx context.Context, lenderID string) (*ComplianceDTO, error) {
	var out *ComplianceDTO
	err := u.d.UoW.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Lenders.GetByLenderID(ctx, lenderID)
		if errors.Is(err, compliance.ErrNotFound) {
			c, err = compliance.New(lenderID), nil
		}
		if err != nil {
			return err
		}
		ws, err := r.Warnings.ListByLender(ctx, lenderID)
		if err != nil {
			return err
		}
		if ws == nil {
			ws = []compliance.Warning{}
		}
		out = &ComplianceDTO{LenderCompliance: c, Warnings: ws}
		return nil
	})
	return out, err
}
