package loan

import (
	"slices"
	"time"
)

var transitions = map[Status][]Status{
	StatusPendingOffer:        {StatusPendingDisbursement, StatusDeclined},
	StatusPendingDisbursement: {StatusActive, StatusWrittenOff},
	StatusActive:              {StatusCompleted, StatusDefaulted, StatusWrittenOff},
}

// InitialStatus is pending_offer for platform borrowers who must accept,
// active for tracked (offline) borrowers.
func InitialStatus(requiresAcceptance bool) Status {
	if requiresAcceptance {
		return StatusPendingOffer
	}
	return StatusActive
}

func (s Status) IsTerminal() bool { return slices.Contains(TerminalStatuses, s) }

func CanTransition(from, to Status) bool { return slices.Contains(transitions[from], to) }

// TransitionTo moves the loan to next, or fails with ErrLoanClosed/ErrInvalidTransition.
func (l *Loan) TransitionTo(next Status, reason string, now time.Time) error {
	if !CanTransition(l.Status, next) {
		if l.Status.IsTerminal() {
			return ErrLoanClosed
		}
		return ErrInvalidTransition
	}
	l.Status = next
	l.StatusReason = reason
	l.StatusUpdatedAt = now.UTC()
	return nil
}

// CheckPayable guards payment application.
func (l *Loan) CheckPayable() error {
	switch {
	case l.Status.IsTerminal():
		return ErrLoanClosed
	case l.Status != StatusActive:
		return ErrNotActive
	}
	return nil
}

// CompleteIfSettled flips an active loan to completed once nothing is owed.
// It reports whether the transition happened; calling it again is a no-op.
func (l *Loan) CompleteIfSettled(balance int64, now time.Time) bool {
	if l.Status != StatusActive || balance > 0 {
		return false
	}
	_ = l.TransitionTo(StatusCompleted, "balance settled", now)
	return true
}
