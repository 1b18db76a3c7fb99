// Package amortization turns loan terms into an add-on interest schedule.
// Everything here is pure; amounts are int64 minor units.
package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"microlend-engine/internal/domain/apperr"
	"microlend-engine/pkg/money"
)

type PaymentType string

const (
	OnceOff      PaymentType = "once_off"
	Installments PaymentType = "installments"
)

const (
	// DefaultMinPrincipal is 100 major units.
	DefaultMinPrincipal int64 = 10_000
	// MaxPrincipal is one trillion major units. At the highest total rate
	// (100% + 11 * 50%) the total stays far inside int64.
	MaxPrincipal    int64 = 100_000_000_000_000
	MaxInstallments       = 12
	// RateDigits matches the precision of the stored rate columns.
	RateDigits = 2
)

var (
	maxBaseRate  = decimal.NewFromInt(100)
	maxExtraRate = decimal.NewFromInt(50)
)

// Terms are the lender-chosen inputs of a loan.
type Terms struct {
	Principal               int64
	BaseRatePercent         decimal.Decimal
	ExtraRatePerInstallment decimal.Decimal
	PaymentType             PaymentType
	InstallmentCount        int
	StartDate               time.Time
}

// Row is one installment of a schedule.
type Row struct {
	No                 int
	DueDate            time.Time
	AmountDue          int64
	PrincipalComponent int64
	InterestComponent  int64
}

// Quote is the full result of a calculation.
type Quote struct {
	TotalInterestPercent decimal.Decimal
	InterestAmount       int64
	TotalAmount          int64
	Rows                 []Row
	EndDate              time.Time
}

// Count normalizes the installment count: once-off loans always have one.
func (t Terms) Count() int {
	if t.PaymentType == OnceOff {
		return 1
	}
	return t.InstallmentCount
}

// Validate checks the terms against the business floor minPrincipal.
func (t Terms) Validate(minPrincipal int64) error {
	if t.Principal < minPrincipal {
		return apperr.Validation(fmt.Sprintf("principal must be at least %s", money.FromMinor(minPrincipal)))
	}
	if t.Principal > MaxPrincipal {
		return apperr.Validation(fmt.Sprintf("principal must be at most %s", money.FromMinor(MaxPrincipal)))
	}
	if t.BaseRatePercent.IsNegative() || t.BaseRatePercent.GreaterThan(maxBaseRate) {
		return apperr.Validation("base_rate_percent must be between 0 and 100")
	}
	if !hasRateDigits(t.BaseRatePercent) {
		return apperr.Validation(fmt.Sprintf("base_rate_percent must have at most %d decimal places", RateDigits))
	}
	if t.ExtraRatePerInstallment.IsNegative() || t.ExtraRatePerInstallment.GreaterThan(maxExtraRate) {
		return apperr.Validation("extra_rate_per_installment must be between 0 and 50")
	}
	if !hasRateDigits(t.ExtraRatePerInstallment) {
		return apperr.Validation(fmt.Sprintf("extra_rate_per_installment must have at most %d decimal places", RateDigits))
	}
	switch t.PaymentType {
	case OnceOff:
	case Installments:
		if t.InstallmentCount < 1 || t.InstallmentCount > MaxInstallments {
			return apperr.Validation(fmt.Sprintf("installment_count must be between 1 and %d", MaxInstallments))
		}
	default:
		return apperr.Validation(fmt.Sprintf("unknown payment_type %q", t.PaymentType))
	}
	if t.StartDate.IsZero() {
		return apperr.Validation("start date is required")
	}
	return nil
}

func hasRateDigits(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(RateDigits))
}

// TotalInterestPercent is the base rate plus the extra rate for every installment after the first.
func TotalInterestPercent(t Terms) decimal.Decimal {
	if t.PaymentType == OnceOff {
		return t.BaseRatePercent
	}
	extra := t.ExtraRatePerInstallment.Mul(decimal.NewFromInt(int64(t.InstallmentCount - 1)))
	return t.BaseRatePercent.Add(extra)
}

// Calculate validates the terms and produces the schedule.
func Calculate(t Terms, minPrincipal int64) (Quote, error) {
	if err := t.Validate(minPrincipal); err != nil {
		return Quote{}, err
	}
	pct := TotalInterestPercent(t)
	interest := money.PercentOf(t.Principal, pct)
	total := t.Principal + interest
	n := t.Count()

	dues := Split(total, n)
	rows := make([]Row, n)
	interestLeft := interest
	perInterest := ceilDiv(interest, int64(n))
	for i := 0; i < n; i++ {
		ic := min(perInterest, interestLeft, dues[i])
		if i == n-1 {
			ic = interestLeft
		}
		interestLeft -= ic
		rows[i] = Row{
			No:                 i + 1,
			DueDate:            AddMonths(t.StartDate, i+1),
			AmountDue:          dues[i],
			InterestComponent:  ic,
			PrincipalComponent: dues[i] - ic,
		}
	}

	return Quote{
		TotalInterestPercent: pct,
		InterestAmount:       interest,
		TotalAmount:          total,
		Rows:                 rows,
		EndDate:              rows[n-1].DueDate,
	}, nil
}

// Split divides total into n parts: ceil(total/n) for all but the last,
// the last takes whatever remains so the parts sum to total exactly.
func Split(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	out := make([]int64, n)
	per := ceilDiv(total, int64(n))
	for i := 0; i < n-1; i++ {
		out[i] = per
	}
	out[n-1] = total - per*int64(n-1)
	return out
}

// AddMonths adds calendar months, clamping to the last day of the target month.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
