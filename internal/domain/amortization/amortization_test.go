package amortization

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microlend-engine/internal/domain/apperr"
)

var start = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func terms(principal int64, base, extra string, pt PaymentType, n int) Terms {
	return Terms{
		Principal:               principal,
		BaseRatePercent:         decimal.RequireFromString(base),
		ExtraRatePerInstallment: decimal.RequireFromString(extra),
		PaymentType:             pt,
		InstallmentCount:        n,
		StartDate:               start,
	}
}

func TestCalculate_ThreeInstallments(t *testing.T) {
	q, err := Calculate(terms(10_000, "30", "2", Installments, 3), DefaultMinPrincipal)
	require.NoError(t, err)

	assert.True(t, q.TotalInterestPercent.Equal(decimal.NewFromInt(34)))
	assert.Equal(t, int64(3400), q.InterestAmount)
	assert.Equal(t, int64(13400), q.TotalAmount)
	require.Len(t, q.Rows, 3)

	want := []int64{4467, 4467, 4466}
	for i, r := range q.Rows {
		assert.Equal(t, i+1, r.No)
		assert.Equal(t, want[i], r.AmountDue)
		assert.Equal(t, r.AmountDue, r.PrincipalComponent+r.InterestComponent)
	}
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), q.Rows[0].DueDate)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), q.EndDate)
}

func TestCalculate_OnceOffIgnoresExtraRate(t *testing.T) {
	q, err := Calculate(terms(50_000, "12.5", "3", OnceOff, 7), DefaultMinPrincipal)
	require.NoError(t, err)

	assert.True(t, q.TotalInterestPercent.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, int64(6250), q.InterestAmount)
	require.Len(t, q.Rows, 1)
	assert.Equal(t, int64(56_250), q.Rows[0].AmountDue)
	assert.Equal(t, int64(6250), q.Rows[0].InterestComponent)
}

func TestCalculate_Reconciles(t *testing.T) {
	for principal := int64(10_000); principal < 10_000+997*37; principal += 997 {
		for n := 1; n <= MaxInstallments; n++ {
			for _, base := range []string{"0", "0.01", "7.33", "30", "100"} {
				q, err := Calculate(terms(principal, base, "1.75", Installments, n), DefaultMinPrincipal)
				require.NoError(t, err)

				var due, prin, intr int64
				for _, r := range q.Rows {
					require.GreaterOrEqual(t, r.PrincipalComponent, int64(0))
					require.GreaterOrEqual(t, r.InterestComponent, int64(0))
					due += r.AmountDue
					prin += r.PrincipalComponent
					intr += r.InterestComponent
				}
				require.Equal(t, q.TotalAmount, due, "principal=%d n=%d base=%s", principal, n, base)
				require.Equal(t, principal, prin)
				require.Equal(t, q.InterestAmount, intr)
			}
		}
	}
}

func TestCalculate_RejectsOutOfRange(t *testing.T) {
	cases := map[string]Terms{
		"principal floor":   terms(9_999, "10", "0", Installments, 2),
		"principal ceiling": terms(MaxPrincipal+1, "10", "0", Installments, 2),
		"int64 overflow":    terms(2_000_000_000_000_000_000, "100", "50", Installments, 12),
		"base precision":    terms(100_000, "30.125", "0", Installments, 2),
		"extra precision":   terms(100_000, "30", "0.001", Installments, 2),
		"base rate":         terms(10_000, "100.01", "0", Installments, 2),
		"negative base":     terms(10_000, "-1", "0", Installments, 2),
		"extra rate":        terms(10_000, "10", "50.5", Installments, 2),
		"zero installments": terms(10_000, "10", "0", Installments, 0),
		"13 installments":   terms(10_000, "10", "0", Installments, 13),
		"payment type":      terms(10_000, "10", "0", PaymentType("weekly"), 2),
	}
	for name, tm := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Calculate(tm, DefaultMinPrincipal)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
		})
	}
}

func TestCalculate_LargestLoanStaysPositive(t *testing.T) {
	q, err := Calculate(terms(MaxPrincipal, "100", "50", Installments, MaxInstallments), DefaultMinPrincipal)
	require.NoError(t, err)
	assert.Equal(t, MaxPrincipal*13/2, q.InterestAmount)
	assert.Equal(t, MaxPrincipal+q.InterestAmount, q.TotalAmount)
	for _, r := range q.Rows {
		assert.Positive(t, r.AmountDue)
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []int64{4467, 4467, 4466}, Split(13400, 3))
	assert.Equal(t, []int64{100}, Split(100, 1))
	assert.Equal(t, []int64{834, 834, 834, 834, 834, 834, 834, 834, 834, 834, 834, 826}, Split(10_000, 12))
}

func TestAddMonths_ClampsMonthEnd(t *testing.T) {
	jan31 := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), AddMonths(jan31, 1))
	assert.Equal(t, time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC), AddMonths(jan31, 2))
	assert.Equal(t, time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC), AddMonths(time.Date(2027, 12, 31, 9, 0, 0, 0, time.UTC), 2))
}
