package model

import "time"

// RunStatus represents the current state of a discovery run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusResolving RunStatus = "resolving"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// TierStats aggregates per-tier outcomes across a run.
type TierStats struct {
	Tier        SourceTier `json:"tier"`
	Attempted   int        `json:"attempted"`   // targets for which this tier was actually queried
	Contributed int        `json:"contributed"` // targets where this tier supplied an accepted field
}

// Effectiveness is the fraction of attempted uses of the tier that
// contributed at least one accepted field. Zero when never attempted.
func (s TierStats) Effectiveness() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Contributed) / float64(s.Attempted)
}

// RunReport is the read-only aggregation of a finished run. Profiles
// preserve target input order regardless of completion order.
type RunReport struct {
	Profiles    []ContactProfile         `json:"profiles"`
	EmailLog    []OutreachRecord         `json:"email_log,omitempty"`
	Tiers       map[SourceTier]TierStats `json:"tiers"`
	QueriesUsed int                      `json:"queries_used"`
	QueryLimit  int                      `json:"query_limit"`
	StartedAt   time.Time                `json:"started_at"`
	FinishedAt  time.Time                `json:"finished_at"`
}

// GoalMetCount returns how many profiles satisfied the configured goal.
func (r *RunReport) GoalMetCount() int {
	n := 0
	for _, p := range r.Profiles {
		if p.GoalMet {
			n++
		}
	}
	return n
}

// Run represents a single persisted discovery run.
type Run struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	Targets   int        `json:"targets"`
	Report    *RunReport `json:"report,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
