package loan

import (
	"errors"
	"testing"
	"time"

	"microlend-engine/internal/domain/apperr"
)

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(true); got != StatusPendingOffer {
		t.Fatalf("requires acceptance => %s", got)
	}
	if got := InitialStatus(false); got != StatusActive {
		t.Fatalf("tracked borrower => %s", got)
	}
}

func TestTransitionTo_HappyPath(t *testing.T) {
	now := time.Now()
	l := &Loan{Status: StatusPendingOffer}
	for _, next := range []Status{StatusPendingDisbursement, StatusActive, StatusCompleted} {
		if err := l.TransitionTo(next, "", now); err != nil {
			t.Fatalf("-> %s: %v", next, err)
		}
	}
	if l.Status != StatusCompleted || !l.StatusUpdatedAt.Equal(now.UTC()) {
		t.Fatalf("unexpected loan: %+v", l)
	}
}

func TestTransitionTo_Illegal(t *testing.T) {
	cases := []struct {
		from, to Status
		want     error
	}{
		{StatusPendingOffer, StatusActive, ErrInvalidTransition},
		{StatusPendingOffer, StatusWrittenOff, ErrInvalidTransition},
		{StatusPendingDisbursement, StatusDefaulted, ErrInvalidTransition},
		{StatusActive, StatusPendingOffer, ErrInvalidTransition},
		{StatusCompleted, StatusActive, ErrLoanClosed},
		{StatusDefaulted, StatusWrittenOff, ErrLoanClosed},
		{StatusWrittenOff, StatusCompleted, ErrLoanClosed},
		{StatusDeclined, StatusPendingDisbursement, ErrLoanClosed},
	}
	for _, c := range cases {
		l := &Loan{Status: c.from}
		err := l.TransitionTo(c.to, "", time.Now())
		if !errors.Is(err, c.want) {
			t.Fatalf("%s -> %s: got %v, want %v", c.from, c.to, err, c.want)
		}
		if !errors.Is(err, apperr.ErrInvalidState) {
			t.Fatalf("%s -> %s: kind should be invalid state", c.from, c.to)
		}
		if l.Status != c.from {
			t.Fatalf("status mutated on failed transition")
		}
	}
}

func TestCheckPayable(t *testing.T) {
	if err := (&Loan{Status: StatusActive}).CheckPayable(); err != nil {
		t.Fatalf("active loan: %v", err)
	}
	if err := (&Loan{Status: StatusPendingDisbursement}).CheckPayable(); !errors.Is(err, ErrNotActive) {
		t.Fatalf("pending disbursement: %v", err)
	}
	for _, s := range TerminalStatuses {
		if err := (&Loan{Status: s}).CheckPayable(); !errors.Is(err, ErrLoanClosed) {
			t.Fatalf("%s: %v", s, err)
		}
	}
}

func TestCompleteIfSettled_Idempotent(t *testing.T) {
	l := &Loan{Status: StatusActive}
	if l.CompleteIfSettled(1, time.Now()) {
		t.Fatalf("completed with balance left")
	}
	if !l.CompleteIfSettled(0, time.Now()) {
		t.Fatalf("expected completion at zero balance")
	}
	if l.Status != StatusCompleted {
		t.Fatalf("status = %s", l.Status)
	}
	if l.CompleteIfSettled(0, time.Now()) || l.CompleteIfSettled(-5, time.Now()) {
		t.Fatalf("second evaluation must be a no-op")
	}
	if l.Status != StatusCompleted {
		t.Fatalf("status changed by no-op: %s", l.Status)
	}
}

func TestIsParty(t *testing.T) {
	l := &Loan{BorrowerID: "b", LenderID: "l"}
	if !l.IsParty("b") || !l.IsParty("l") || l.IsParty("x") || l.IsParty("") {
		t.Fatalf("IsParty mismatch")
	}
}
