package domain

import "time"

// Outcome is the terminal state of one pipeline run.
type Outcome string

const (
	OutcomePublished         Outcome = "published"
	OutcomeNoneEligible      Outcome = "none_eligible"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeExhaustedAttempts Outcome = "exhausted_attempts"
	OutcomeFatal             Outcome = "fatal"
)

// RunStats holds statistics about a single pipeline run.
type RunStats struct {
	Fetched  int // deals emitted by all adapters combined
	Unique   int // deals surviving cross-source deduplication
	Eligible int // unique deals passing the static eligibility checks
	Skipped  int // candidates rejected during the scan (history, image, errors)
	Attempts int // publish attempts consumed
	Duration time.Duration
}

// RunResult is the single outcome of one pipeline invocation.
type RunResult struct {
	Outcome Outcome
	Deal    *Deal // set when Outcome is published
	Err     error // set when Outcome is fatal
	Stats   RunStats
}
