// Package scoring recomputes a borrower's credit score from the payment ledger.
// Nothing is kept incrementally: the same ledger always replays to the same score.
package scoring

import (
	"sort"
	"time"

	"microlend-engine/internal/domain/payment"
	"microlend-engine/internal/domain/risk"
)

const (
	MinScore        = 300
	MaxScore        = 850
	BaseWithHistory = 700
	BaseNoHistory   = 600
	HistoryMonths   = 12
)

var deductions = map[payment.Bucket]int{
	payment.BucketLate1to7:   10,
	payment.BucketLate8to30:  35,
	payment.BucketLate31to60: 70,
	payment.BucketDefault:    70,
}

var flagDeductions = map[risk.Type]int{
	risk.TypeLate1to7:   10,
	risk.TypeLate8to30:  35,
	risk.TypeLate31to60: 70,
	risk.TypeDefault:    70,
}

// Factor is a transparency weight; it does not feed the number.
type Factor struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

var Factors = []Factor{
	{Name: "payment_history", Weight: 35},
	{Name: "utilization", Weight: 30},
	{Name: "credit_age", Weight: 15},
	{Name: "credit_mix", Weight: 10},
	{Name: "new_inquiries", Weight: 10},
}

type MonthPoint struct {
	Month string `json:"month"`
	Score int    `json:"score"`
}

type Result struct {
	Score          int
	HasHistory     bool
	OnTimePayments int
	LatePayments   int
	Factors        []Factor
	History        []MonthPoint
}

// Compute replays events month by month up to now. Open lender-reported flags
// deduct in the current month; system flags are already reflected by the events.
func Compute(events []payment.Event, openFlags []risk.Flag, now time.Time) Result {
	ledger := make([]payment.Event, 0, len(events))
	for _, e := range events {
		if e.Kind == payment.KindInstallment {
			ledger = append(ledger, e)
		}
	}
	sort.SliceStable(ledger, func(i, j int) bool {
		a, b := ledger[i], ledger[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.EventID < b.EventID
	})

	current := monthOf(now)
	res := Result{Factors: Factors}
	perMonth := map[time.Time]int{}
	first := current.AddDate(0, -(HistoryMonths - 1), 0)

	for _, e := range ledger {
		m := monthOf(e.OccurredAt)
		if m.After(current) {
			continue
		}
		res.HasHistory = true
		b := e.Bucket()
		if !b.IsLate() {
			res.OnTimePayments++
			continue
		}
		res.LatePayments++
		perMonth[m] += deductions[b]
		if m.Before(first) {
			first = m
		}
	}
	for _, f := range openFlags {
		if f.Origin != risk.OriginLenderReported || !f.IsOpen() {
			continue
		}
		res.HasHistory = true
		perMonth[current] += flagDeductions[f.Type]
	}

	score := BaseNoHistory
	if res.HasHistory {
		score = BaseWithHistory
	}
	historyFrom := current.AddDate(0, -(HistoryMonths - 1), 0)
	for m := first; !m.After(current); m = m.AddDate(0, 1, 0) {
		score = clamp(score - perMonth[m])
		if !m.Before(historyFrom) {
			res.History = append(res.History, MonthPoint{Month: m.Format("2006-01"), Score: score})
		}
	}
	res.Score = score
	return res
}

func monthOf(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func clamp(s int) int { return min(max(s, MinScore), MaxScore) }
