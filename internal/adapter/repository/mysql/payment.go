package mysql

import (
	"context"

	"microlend-engine/internal/domain/payment"

	"gorm.io/gorm"
)

// PaymentRepository only inserts and reads; the ledger is never rewritten.
type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Append(ctx context.Context, events []*payment.Event) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]payment.Event, error) {
	var out []payment.Event
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("occurred_at, seq, id").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListByBorrower(ctx context.Context, borrowerID string) ([]payment.Event, error) {
	var out []payment.Event
	err := r.db.WithContext(ctx).Where("borrower_id = ?", borrowerID).Order("occurred_at, seq, id").Find(&out).Error
	return out, err
}
