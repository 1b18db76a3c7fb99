// Package event defines the domain events emitted after a unit of work commits.
package event

import (
	"context"
	"time"
)

type Name string

const (
	LoanCreated           Name = "loan.created"
	LoanOfferAccepted     Name = "loan.offer_accepted"
	LoanOfferDeclined     Name = "loan.offer_declined"
	LoanActivated         Name = "loan.activated"
	LoanCompleted         Name = "loan.completed"
	LoanDefaulted         Name = "loan.defaulted"
	LoanWrittenOff        Name = "loan.written_off"
	PaymentRecorded       Name = "payment.recorded"
	DisbursementSubmitted Name = "disbursement.submitted"
	DisbursementDisputed  Name = "disbursement.disputed"
	RiskFlagRaised        Name = "risk_flag.raised"
	LenderWarningIssued   Name = "lender.warning_issued"
)

type Event struct {
	Name       Name           `json:"name"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func New(name Name, key string, at time.Time, payload map[string]any) Event {
	return Event{Name: name, Key: key, OccurredAt: at.UTC(), Payload: payload}
}

// Publisher delivers committed events. Failures never undo the committed state.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}
