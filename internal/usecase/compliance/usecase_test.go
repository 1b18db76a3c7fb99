package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microlend-engine/internal/domain/apperr"
	"microlend-engine/internal/domain/compliance"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/domain/uow"
	"microlend-engine/internal/testutil/dbtest"
)

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func warn(sev compliance.Severity) IssueWarningInput {
	return IssueWarningInput{
		LenderID:    dbtest.Lender,
		IssuedBy:    "compliance-officer",
		Type:        "unresolved_proofs",
		Severity:    string(sev),
		Title:       "Proofs left pending",
		Description: "Borrower proofs were not resolved within 7 days.",
	}
}

func TestGet_UnknownLenderIsInGoodStanding(t *testing.T) {
	env := dbtest.New(t, now)
	dto, err := NewUsecase(env.Deps).Get(context.Background(), dbtest.Lender)
	require.NoError(t, err)
	assert.Equal(t, 100, dto.ComplianceScore)
	assert.Equal(t, compliance.StatusGood, dto.Status)
	assert.NotNil(t, dto.Warnings)
	assert.Empty(t, dto.Warnings)
}

func TestIssueWarning_SuspensionExample(t *testing.T) {
	env := dbtest.New(t, now)
	uc := NewUsecase(env.Deps)
	ctx := context.Background()

	for _, sev := range []compliance.Severity{compliance.SeverityFinalWarning, compliance.SeverityFinalWarning, compliance.SeverityNotice} {
		_, err := uc.IssueWarning(ctx, warn(sev))
		require.NoError(t, err)
	}

	res, err := uc.IssueWarning(ctx, warn(compliance.SeveritySuspension))
	require.NoError(t, err)
	assert.Equal(t, 30, res.Warning.Points)
	assert.Equal(t, 25, res.Warning.ScoreAfter)
	assert.Equal(t, compliance.StatusSuspended, res.Warning.StatusAfter)
	assert.Equal(t, now, res.Warning.CreatedAt.UTC())

	err = env.Deps.UoW.WithinTx(ctx, func(r uow.Repos) error {
		return CheckCanLend(ctx, r, dbtest.Lender)
	})
	assert.ErrorIs(t, err, compliance.ErrLenderRestricted)

	dto, err := uc.Get(ctx, dbtest.Lender)
	require.NoError(t, err)
	assert.Equal(t, 4, dto.WarningCount)
	assert.Len(t, dto.Warnings, 4)

	assert.Len(t, env.Events.Names(), 4)
	assert.Equal(t, event.LenderWarningIssued, env.Events.Names()[3])
	assert.Equal(t, float64(2), testutil.ToFloat64(env.Deps.Metrics.WarningsIssued.WithLabelValues("final_warning")))
}

func TestIssueWarning_BanIsFinal(t *testing.T) {
	env := dbtest.New(t, now)
	uc := NewUsecase(env.Deps)
	ctx := context.Background()

	res, err := uc.IssueWarning(ctx, warn(compliance.SeverityBan))
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusBanned, res.Compliance.Status)
	assert.Zero(t, res.Compliance.ComplianceScore)

	_, err = uc.IssueWarning(ctx, warn(compliance.SeverityNotice))
	assert.ErrorIs(t, err, compliance.ErrLenderBanned)

	dto, err := uc.Get(ctx, dbtest.Lender)
	require.NoError(t, err)
	assert.Len(t, dto.Warnings, 1)
}

func TestIssueWarning_UnknownSeverity(t *testing.T) {
	env := dbtest.New(t, now)
	_, err := NewUsecase(env.Deps).IssueWarning(context.Background(), warn("scolding"))
	assert.ErrorIs(t, err, compliance.ErrUnknownSeverity)
	assert.ErrorIs(t, apperr.Kind(err), apperr.ErrValidation)
	assert.Empty(t, env.Events.Names())
}

func TestCheckCanLend_NoRow(t *testing.T) {
	env := dbtest.New(t, now)
	ctx := context.Background()
	err := env.Deps.UoW.WithinTx(ctx, func(r uow.Repos) error {
		return CheckCanLend(ctx, r, dbtest.Stranger)
	})
	assert.NoError(t, err)
}
