package risk

import (
	"time"

	"microlend-engine/internal/domain/apperr"
	"microlend-engine/internal/domain/payment"
)

type Type string

const (
	TypeLate1to7   Type = "LATE_1_7"
	TypeLate8to30  Type = "LATE_8_30"
	TypeLate31to60 Type = "LATE_31_60"
	TypeDefault    Type = "DEFAULT"
	TypeCleared    Type = "CLEARED"
)

type Origin string

const (
	OriginLenderReported Origin = "LENDER_REPORTED"
	OriginSystemAuto     Origin = "SYSTEM_AUTO"
)

var (
	ErrNotFound        = apperr.New(apperr.ErrNotFound, "risk flag not found")
	ErrAlreadyResolved = apperr.New(apperr.ErrInvalidState, "risk flag already resolved")
	ErrUnknownType     = apperr.New(apperr.ErrValidation, "unknown risk flag type")
)

// Flag is a permanent record. Resolution is a soft mutation; rows are never deleted.
type Flag struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	FlagID           string     `gorm:"size:32;uniqueIndex" json:"flag_id"`
	BorrowerID       string     `gorm:"size:32;index:idx_risk_flags_borrower" json:"borrower_id"`
	LoanID           uint64     `gorm:"index" json:"-"`
	LoanPublicID     string     `gorm:"size:32" json:"loan_id"`
	InstallmentID    *uint64    `gorm:"index" json:"-"`
	InstallmentNo    int        `json:"installment_no,omitempty"`
	Type             Type       `gorm:"size:16" json:"type"`
	Origin           Origin     `gorm:"size:16" json:"origin"`
	Reason           string     `gorm:"type:text" json:"reason"`
	AmountAtIssue    int64      `json:"amount_at_issue"`
	ReportedBy       string     `gorm:"size:32" json:"reported_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `gorm:"index:idx_risk_flags_borrower" json:"resolved_at,omitempty"`
	ResolutionReason string     `gorm:"type:text" json:"resolution_reason,omitempty"`
}

func (Flag) TableName() string { return "risk_flags" }

func (f *Flag) IsOpen() bool { return f.ResolvedAt == nil }

// Resolve closes the flag while keeping the row.
func (f *Flag) Resolve(reason string, now time.Time) error {
	if !f.IsOpen() {
		return ErrAlreadyResolved
	}
	at := now.UTC()
	f.ResolvedAt = &at
	f.ResolutionReason = reason
	return nil
}

var severity = map[Type]int{
	TypeCleared:    0,
	TypeLate1to7:   1,
	TypeLate8to30:  2,
	TypeLate31to60: 3,
	TypeDefault:    4,
}

// Severity orders late types; unknown types rank below everything.
func (t Type) Severity() int {
	s, ok := severity[t]
	if !ok {
		return -1
	}
	return s
}

// Reportable lists the types a lender may raise by hand.
func (t Type) Reportable() bool {
	switch t {
	case TypeLate1to7, TypeLate8to30, TypeLate31to60, TypeDefault:
		return true
	}
	return false
}

// TypeForBucket maps a lateness bucket to its flag type.
func TypeForBucket(b payment.Bucket) (Type, bool) {
	switch b {
	case payment.BucketLate1to7:
		return TypeLate1to7, true
	case payment.BucketLate8to30:
		return TypeLate8to30, true
	case payment.BucketLate31to60:
		return TypeLate31to60, true
	case payment.BucketDefault:
		return TypeDefault, true
	}
	return "", false
}

// TypeForDaysLate classifies days late straight to a flag type.
func TypeForDaysLate(days int) (Type, bool) { return TypeForBucket(payment.Classify(days)) }

// Escalates reports whether raising next over the current open flag is an upgrade.
// A nil current flag always escalates.
func Escalates(current *Flag, next Type) bool {
	if current == nil {
		return true
	}
	return next.Severity() > current.Type.Severity()
}
