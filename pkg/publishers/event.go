package publishers

import (
	"time"

	"github.com/0x6666/ddns-client/internal/domain"
	"github.com/google/uuid"
)

// Event represents a submission outcome published downstream.
type Event struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"record_id"`
	Fingerprint string    `json:"fingerprint"`
	Outcome     string    `json:"outcome"`
	StatusCode  int       `json:"status_code,omitempty"`
	Response    string    `json:"response,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewEvent constructs an Event for the given submission.
func NewEvent(sub domain.Submission) Event {
	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}
	return Event{
		ID:          uuid.NewString(),
		RecordID:    sub.RecordID,
		Fingerprint: sub.Fingerprint,
		Outcome:     sub.Outcome,
		StatusCode:  sub.StatusCode,
		Response:    sub.Response,
		Error:       sub.Error,
		DurationMs:  sub.Duration.Milliseconds(),
		SubmittedAt: submittedAt.UTC(),
	}
}

// attributes are the routing attributes attached to queue messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"record_id": e.RecordID,
		"outcome":   e.Outcome,
	}
}
