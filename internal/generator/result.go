package generator

import (
	"time"
)

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeNotFound
	OutcomeTimeout
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeNotFound:
		return "not found"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of one submission. Path is set only on success,
// Err on everything else.
type Result struct {
	SubmissionID string
	Seq          uint64
	Outcome      Outcome
	Path         string
	Err          error
	Stdout       string
	Stderr       string
	ExitCode     int
	Duration     time.Duration
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}
