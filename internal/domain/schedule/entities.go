package schedule

import (
	"time"

	"microlend-engine/internal/domain/amortization"
	"microlend-engine/internal/domain/apperr"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	// StatusOverdue is derived at query time and never stored.
	StatusOverdue Status = "overdue"
)

var ErrNotFound = apperr.New(apperr.ErrNotFound, "installment not found")

// Installment is one row of a loan's repayment schedule.
type Installment struct {
	ID                 uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID             uint64     `gorm:"not null;uniqueIndex:ux_installments_loan_no" json:"-"`
	InstallmentNo      int        `gorm:"not null;uniqueIndex:ux_installments_loan_no" json:"installment_no"`
	DueDate            time.Time  `json:"due_date"`
	AmountDue          int64      `json:"amount_due"`
	PrincipalComponent int64      `json:"principal_component"`
	InterestComponent  int64      `json:"interest_component"`
	PaidAmount         int64      `json:"paid_amount"`
	Status             Status     `gorm:"size:16;index" json:"status"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (Installment) TableName() string { return "installments" }

// FromRows materializes calculator rows for the loan with numeric id loanID.
func FromRows(loanID uint64, rows []amortization.Row) []*Installment {
	out := make([]*Installment, 0, len(rows))
	for _, r := range rows {
		out = append(out, &Installment{
			LoanID:             loanID,
			InstallmentNo:      r.No,
			DueDate:            r.DueDate,
			AmountDue:          r.AmountDue,
			PrincipalComponent: r.PrincipalComponent,
			InterestComponent:  r.InterestComponent,
			Status:             StatusPending,
		})
	}
	return out
}

func (i *Installment) Remaining() int64 { return i.AmountDue - i.PaidAmount }

// Apply adds amount to the installment and returns the part that did not fit.
// PaidAmount never exceeds AmountDue.
func (i *Installment) Apply(amount int64, at time.Time) (remainder int64) {
	if amount <= 0 || i.Status == StatusPaid {
		return max(amount, 0)
	}
	take := min(amount, i.Remaining())
	i.PaidAmount += take
	if i.PaidAmount >= i.AmountDue {
		i.Status = StatusPaid
		paidAt := at.UTC()
		i.PaidAt = &paidAt
	} else {
		i.Status = StatusPartial
	}
	return amount - take
}

// EffectiveStatus layers the derived overdue status on top of the stored one.
func (i *Installment) EffectiveStatus(now time.Time) Status {
	if i.Status != StatusPaid && DueDay(i.DueDate).Before(DueDay(now)) {
		return StatusOverdue
	}
	return i.Status
}

// DaysOverdue counts whole calendar days past due for an unpaid installment.
func (i *Installment) DaysOverdue(now time.Time) int {
	if i.Status == StatusPaid {
		return 0
	}
	return DaysBetween(i.DueDate, now)
}

// Balance is sum(amount_due) - sum(paid_amount).
func Balance(rows []Installment) int64 {
	var b int64
	for _, r := range rows {
		b += r.AmountDue - r.PaidAmount
	}
	return b
}

// DueDay truncates t to its UTC calendar day.
func DueDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from due to at, never negative.
func DaysBetween(due, at time.Time) int {
	d := int(DueDay(at).Sub(DueDay(due)).Hours() / 24)
	return max(d, 0)
}
