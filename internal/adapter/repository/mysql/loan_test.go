package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "microlend-engine/internal/domain/loan"
	"microlend-engine/pkg/id"
)

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	borrower := id.NewID32()

	l := makeLoan(loanID, borrower, domain.StatusActive)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != borrower {
		t.Errorf("unexpected loan: %+v", got)
	}
	if !got.BaseRatePercent.Equal(l.BaseRatePercent) || got.TotalAmount != 13_400 {
		t.Errorf("terms not round-tripped: %+v", got)
	}
}

func TestSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "dddddddddddddddddddddddddddddddd", domain.StatusActive)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := l.TransitionTo(domain.StatusWrittenOff, "borrower unreachable", time.Now()); err != nil {
		t.Fatalf("TransitionTo: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if got.Status != domain.StatusWrittenOff || got.StatusReason != "borrower unreachable" {
		t.Errorf("status not updated: %+v", got)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByLoanID(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByLoanIDForUpdate(ctx, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for update, got %v", err)
	}
}

func TestGetOpenLoanByBorrowerID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	b1 := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	now := time.Now().UTC()

	closed := makeLoan("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", b1, domain.StatusCompleted)
	closed.StatusUpdatedAt = now.Add(-3 * time.Hour)
	older := makeLoan("cccccccccccccccccccccccccccccccc", b1, domain.StatusDeclined)
	older.StatusUpdatedAt = now.Add(-2 * time.Hour)
	wantID := "dddddddddddddddddddddddddddddddd"
	open := makeLoan(wantID, b1, domain.StatusPendingOffer)
	open.StatusUpdatedAt = now.Add(-1 * time.Hour)

	for _, l := range []*domain.Loan{closed, older, open} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.GetOpenLoanByBorrowerID(ctx, b1)
	if err != nil {
		t.Fatalf("GetOpenLoanByBorrowerID error: %v", err)
	}
	if got == nil || got.LoanID != wantID {
		t.Fatalf("unexpected loan: %+v", got)
	}

	got, err = repo.GetOpenLoanByBorrowerID(ctx, "99999999999999999999999999999999")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for borrower without open loans, got %+v, %v", got, err)
	}
}

func TestListLoanIDsByStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	_ = repo.Create(ctx, makeLoan("L1", "B1", domain.StatusActive))
	_ = repo.Create(ctx, makeLoan("L2", "B2", domain.StatusCompleted))
	_ = repo.Create(ctx, makeLoan("L3", "B3", domain.StatusActive))

	ids, err := repo.ListLoanIDsByStatus(ctx, domain.StatusActive)
	if err != nil {
		t.Fatalf("ListLoanIDsByStatus: %v", err)
	}
	if len(ids) != 2 || ids[0] != "L1" || ids[1] != "L3" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
