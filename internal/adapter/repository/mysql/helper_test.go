package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"microlend-engine/internal/domain/amortization"
	domain "microlend-engine/internal/domain/loan"
)

// openTestDB creates an in-memory sqlite DB with the full schema. One connection
// keeps every statement (and every transaction) on the same memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID, borrowerID string, status domain.Status) *domain.Loan {
	return &domain.Loan{
		LoanID:                  loanID,
		BorrowerID:              borrowerID,
		LenderID:                "ffffffffffffffffffffffffffffffff",
		Currency:                "ZAR",
		Principal:               10_000,
		BaseRatePercent:         decimal.NewFromInt(30),
		ExtraRatePerInstallment: decimal.NewFromInt(2),
		PaymentType:             amortization.Installments,
		InstallmentCount:        3,
		TotalInterestPercent:    decimal.NewFromInt(34),
		InterestAmount:          3_400,
		TotalAmount:             13_400,
		Status:                  status,
		StatusUpdatedAt:         time.Now().UTC(),
	}
}
