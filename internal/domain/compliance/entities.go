package compliance

import (
	"time"

	"microlend-engine/internal/domain/apperr"
)

type Status string

const (
	StatusGood      Status = "good"
	StatusWarning   Status = "warning"
	StatusProbation Status = "probation"
	StatusSuspended Status = "suspended"
	StatusBanned    Status = "banned"
)

type Severity string

const (
	SeverityNotice       Severity = "notice"
	SeverityWarning      Severity = "warning"
	SeverityFinalWarning Severity = "final_warning"
	SeveritySuspension   Severity = "suspension"
	SeverityBan          Severity = "ban"
)

var (
	ErrNotFound         = apperr.New(apperr.ErrNotFound, "lender compliance not found")
	ErrLenderBanned     = apperr.New(apperr.ErrInvalidState, "lender is banned")
	ErrUnknownSeverity  = apperr.New(apperr.ErrValidation, "unknown warning severity")
	ErrLenderRestricted = apperr.New(apperr.ErrUnauthorized, "lender may not create loans")
)

const (
	MaxScore = 100

	// rejection penalty kicks in only with enough proofs to judge
	minProofsForPenalty = 5
	maxRejectionPenalty = 40
)

var weights = map[Severity]int{
	SeverityNotice:       5,
	SeverityWarning:      10,
	SeverityFinalWarning: 20,
	SeveritySuspension:   30,
	SeverityBan:          100,
}

var rank = map[Status]int{
	StatusGood:      0,
	StatusWarning:   1,
	StatusProbation: 2,
	StatusSuspended: 3,
	StatusBanned:    4,
}

// Weight returns the points a warning of this severity deducts.
func (s Severity) Weight() (int, bool) {
	w, ok := weights[s]
	return w, ok
}

// floor is the minimum status a severity forces regardless of score.
func (s Severity) floor() Status {
	switch s {
	case SeverityBan:
		return StatusBanned
	case SeveritySuspension:
		return StatusSuspended
	}
	return StatusGood
}

func StatusForScore(score int) Status {
	switch {
	case score >= 80:
		return StatusGood
	case score >= 60:
		return StatusWarning
	case score >= 40:
		return StatusProbation
	case score >= 20:
		return StatusSuspended
	default:
		return StatusBanned
	}
}

// CanLend reports whether a lender in this status may originate loans.
func (s Status) CanLend() bool { return rank[s] < rank[StatusSuspended] }

// RejectionPenalty is ceil((rate-0.2)*50) capped at 40, where rate is rejected/received.
func RejectionPenalty(received, rejected int) int {
	if received < minProofsForPenalty || rejected*5 <= received {
		return 0
	}
	// (rejected/received - 1/5) * 50 == (5*rejected - received) * 10 / received
	num := (5*rejected - received) * 10
	p := (num + received - 1) / received
	return min(p, maxRejectionPenalty)
}

// LenderCompliance aggregates a lender's standing. Rows are created lazily.
type LenderCompliance struct {
	ID                    uint64    `gorm:"primaryKey;column:id" json:"-"`
	LenderID              string    `gorm:"size:32;uniqueIndex" json:"lender_id"`
	ComplianceScore       int       `json:"compliance_score"`
	Status                Status    `gorm:"size:16" json:"status"`
	StatusFloor           Status    `gorm:"size:16" json:"-"`
	WarningPoints         int       `json:"-"`
	WarningCount          int       `json:"warning_count"`
	PaymentProofsReceived int       `json:"payment_proofs_received"`
	PaymentProofsApproved int       `json:"payment_proofs_approved"`
	PaymentProofsRejected int       `json:"payment_proofs_rejected"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (LenderCompliance) TableName() string { return "lender_compliance" }

func New(lenderID string) *LenderCompliance {
	return &LenderCompliance{
		LenderID:        lenderID,
		ComplianceScore: MaxScore,
		Status:          StatusGood,
		StatusFloor:     StatusGood,
	}
}

// Recompute derives score and status from the counters.
func (c *LenderCompliance) Recompute() {
	score := MaxScore - c.WarningPoints - RejectionPenalty(c.PaymentProofsReceived, c.PaymentProofsRejected)
	c.ComplianceScore = min(max(score, 0), MaxScore)

	if c.Status == StatusBanned {
		return
	}
	next := StatusForScore(c.ComplianceScore)
	if rank[c.StatusFloor] > rank[next] {
		next = c.StatusFloor
	}
	c.Status = next
}

// ApplyWarning deducts the severity weight and returns the points taken.
func (c *LenderCompliance) ApplyWarning(sev Severity) (int, error) {
	if c.Status == StatusBanned {
		return 0, ErrLenderBanned
	}
	w, ok := sev.Weight()
	if !ok {
		return 0, ErrUnknownSeverity
	}
	c.WarningPoints += w
	c.WarningCount++
	if f := sev.floor(); rank[f] > rank[c.StatusFloor] {
		c.StatusFloor = f
	}
	c.Recompute()
	return w, nil
}

func (c *LenderCompliance) ProofReceived() {
	c.PaymentProofsReceived++
	c.Recompute()
}

func (c *LenderCompliance) ProofResolved(approved bool) {
	if approved {
		c.PaymentProofsApproved++
	} else {
		c.PaymentProofsRejected++
	}
	c.Recompute()
}

// Warning is append-only.
type Warning struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	WarningID   string    `gorm:"size:32;uniqueIndex" json:"warning_id"`
	LenderID    string    `gorm:"size:32;index" json:"lender_id"`
	Type        string    `gorm:"size:64" json:"type"`
	Severity    Severity  `gorm:"size:16" json:"severity"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Points      int       `json:"points"`
	ScoreAfter  int       `json:"score_after"`
	StatusAfter Status    `gorm:"size:16" json:"status_after"`
	IssuedBy    string    `gorm:"size:32" json:"issued_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Warning) TableName() string { return "lender_warnings" }
