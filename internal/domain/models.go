package domain

import "time"

// Domain contains core models shared between the sync pipeline and its sinks.

// Outcome values reported for a submission.
const (
	OutcomeCreated = "created"
	OutcomeFailed  = "failed"
)

// Submission is the result of one record creation request.
type Submission struct {
	RecordID    string
	Fingerprint string
	Outcome     string
	StatusCode  int
	Response    string
	Error       string
	Duration    time.Duration
	SubmittedAt time.Time
}

// Succeeded reports whether the server accepted the record.
func (s Submission) Succeeded() bool { return s.Outcome == OutcomeCreated }
