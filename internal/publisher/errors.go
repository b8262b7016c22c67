package publisher

import "errors"

// Publish failure taxonomy. Anything not matching these sentinels is a
// transient failure: the pipeline consumes an attempt and moves to the
// next candidate after a cooldown.
var (
	// ErrRateLimited halts the run immediately so the account is not
	// throttled further; the scheduler backs off on this outcome.
	ErrRateLimited = errors.New("publisher rate limited")

	// ErrFatal marks authentication or configuration failures that no
	// amount of retrying with other candidates can fix.
	ErrFatal = errors.New("fatal publish error")
)
