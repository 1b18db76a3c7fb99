package disbursement

import (
	"errors"
	"testing"
	"time"
)

func TestConfirm(t *testing.T) {
	now := time.Now()
	p := &Proof{LenderSubmittedAt: now.Add(-time.Hour)}
	if err := p.Confirm(now); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if p.BorrowerConfirmedAt == nil {
		t.Fatalf("confirmation time not set")
	}
	if err := p.Confirm(now); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("second confirm: %v", err)
	}
	if err := p.Dispute("late", now); !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("dispute after confirm: %v", err)
	}
}

func TestDisputeBlocksConfirm(t *testing.T) {
	now := time.Now()
	p := &Proof{LenderSubmittedAt: now}
	if err := p.Dispute("funds never arrived", now); err != nil {
		t.Fatalf("Dispute: %v", err)
	}
	if !p.BorrowerDisputed || p.DisputeReason != "funds never arrived" || p.DisputedAt == nil {
		t.Fatalf("dispute not recorded: %+v", p)
	}
	if err := p.Confirm(now); !errors.Is(err, ErrDisputed) {
		t.Fatalf("confirm after dispute: %v", err)
	}
}

func TestProofMissing(t *testing.T) {
	if err := (&Proof{}).Confirm(time.Now()); !errors.Is(err, ErrProofMissing) {
		t.Fatalf("got %v", err)
	}
}
