package mysql

import (
	"microlend-engine/internal/domain/compliance"
	"microlend-engine/internal/domain/disbursement"
	"microlend-engine/internal/domain/loan"
	"microlend-engine/internal/domain/payment"
	"microlend-engine/internal/domain/paymentproof"
	"microlend-engine/internal/domain/risk"
	"microlend-engine/internal/domain/schedule"
	"microlend-engine/internal/domain/scoring"

	"gorm.io/gorm"
)

// Models lists every persisted aggregate in creation order.
func Models() []any {
	return []any{
		&loan.Loan{},
		&schedule.Installment{},
		&payment.Event{},
		&disbursement.Proof{},
		&paymentproof.Proof{},
		&risk.Flag{},
		&scoring.BorrowerScore{},
		&compliance.LenderCompliance{},
		&compliance.Warning{},
	}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
