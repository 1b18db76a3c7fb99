// Package metrics holds the engine's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "microlend"

type Metrics struct {
	Registry *prometheus.Registry

	PaymentsRecorded *prometheus.CounterVec
	AmountAllocated  prometheus.Counter
	Overpayments     prometheus.Counter
	Transitions      *prometheus.CounterVec
	RiskFlagsRaised  *prometheus.CounterVec
	WarningsIssued   *prometheus.CounterVec
	LoanBusyRetries  prometheus.Counter
	PublishFailures  prometheus.Counter
}

// New registers collectors on a private registry so tests can build many.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PaymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "payments_recorded_total",
			Help: "Payments recorded, by source.",
		}, []string{"source"}),
		AmountAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "payment_minor_units_allocated_total",
			Help: "Minor units allocated to installments.",
		}),
		Overpayments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "overpayment_minor_units_total",
			Help: "Minor units recorded as overpayment.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "loan_transitions_total",
			Help: "Loan lifecycle transitions, by target status.",
		}, []string{"to"}),
		RiskFlagsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "risk_flags_raised_total",
			Help: "Risk flags raised, by type and origin.",
		}, []string{"type", "origin"}),
		WarningsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "lender_warnings_issued_total",
			Help: "Lender warnings issued, by severity.",
		}, []string{"severity"}),
		LoanBusyRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "loan_busy_retries_total",
			Help: "Retries after losing the per-loan lock.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "event_publish_failures_total",
			Help: "Domain events that could not be published after commit.",
		}),
	}
	m.Registry.MustRegister(
		m.PaymentsRecorded, m.AmountAllocated, m.Overpayments, m.Transitions,
		m.RiskFlagsRaised, m.WarningsIssued, m.LoanBusyRetries, m.PublishFailures,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
