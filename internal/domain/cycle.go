package domain

import "time"

// Outcome classifies how a poll cycle ended.
type Outcome string

const (
	OutcomeFailed    Outcome = "failed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFiltered  Outcome = "filtered"
	OutcomeNotified  Outcome = "notified"
)

// CycleResult holds statistics about a single poll cycle.
type CycleResult struct {
	Outcome  Outcome
	ItemID   string
	Err      error
	Duration time.Duration
}
