package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0x6666/ddns-client/internal/domain"
	"github.com/0x6666/ddns-client/internal/logger"
	"github.com/0x6666/ddns-client/internal/metrics"
	"github.com/0x6666/ddns-client/pkg/ddnsapi"
	"github.com/0x6666/ddns-client/pkg/publishers"
	"github.com/0x6666/ddns-client/pkg/records"
)

const maxResponseSnippet = 512

// Service submits records that the journal does not hold yet.
type Service struct {
	submitter Submitter
	journal   Journal
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time
}

// Summary counts what a single pass did.
type Summary struct {
	Considered int `json:"considered"`
	Skipped    int `json:"skipped"`
	Created    int `json:"created"`
	Failed     int `json:"failed"`
}

// NewService wires a sync service. journal and publisher may be nil.
func NewService(submitter Submitter, journal Journal, publisher EventPublisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		submitter: submitter,
		journal:   journal,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Run executes one pass: every pending record is dispatched at once and the
// pass returns after each has reported back or ctx ends.
func (s *Service) Run(ctx context.Context, recs []records.Record) (Summary, error) {
	var sum Summary
	if s == nil || s.submitter == nil {
		return sum, fmt.Errorf("sync service is not initialized")
	}
	if len(recs) == 0 {
		return sum, fmt.Errorf("no records configured for sync")
	}

	pending := s.filterPending(recs, &sum)
	if len(pending) == 0 {
		s.log.DebugObj("sync pass found nothing to submit", "sync_summary", sum)
		metrics.MarkSync(s.now())
		return sum, nil
	}

	results := make(chan domain.Submission, len(pending))
	for _, rec := range pending {
		s.dispatch(ctx, rec, results)
	}

	var errs []error
	for range pending {
		var sub domain.Submission
		select {
		case sub = <-results:
		case <-ctx.Done():
			return sum, ctx.Err()
		}

		if sub.Succeeded() {
			sum.Created++
		} else {
			sum.Failed++
			errs = append(errs, fmt.Errorf("record %s: %s", sub.RecordID, sub.Error))
		}
		s.record(ctx, sub)
	}

	metrics.MarkSync(s.now())
	s.log.InfoObj("sync pass completed", "sync_summary", sum)
	return sum, errors.Join(errs...)
}

// filterPending drops disabled records and those already journaled. Journal
// lookup errors keep the record so it is retried on this pass.
func (s *Service) filterPending(recs []records.Record, sum *Summary) []records.Record {
	out := make([]records.Record, 0, len(recs))
	for _, rec := range recs {
		if !rec.EnabledValue() {
			continue
		}
		sum.Considered++

		if s.journal != nil {
			seen, err := s.journal.SeenRecord(rec.Fingerprint())
			if err != nil {
				s.log.WarnObj("journal lookup failed", "journal_error", map[string]any{
					"record_id": rec.ID,
					"error":     err.Error(),
				})
			} else if seen {
				sum.Skipped++
				metrics.IncSkipped()
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// dispatch fires one submission; its callback sends exactly one result.
func (s *Service) dispatch(ctx context.Context, rec records.Record, results chan<- domain.Submission) {
	start := s.now()
	base := domain.Submission{
		RecordID:    rec.ID,
		Fingerprint: rec.Fingerprint(),
		SubmittedAt: start,
	}

	onSuccess := func(body []byte) {
		sub := base
		sub.Outcome = domain.OutcomeCreated
		sub.Response = snippet(body)
		sub.Duration = s.now().Sub(start)
		results <- sub
	}
	onFailure := func(err error) {
		sub := base
		sub.Outcome = domain.OutcomeFailed
		sub.Error = err.Error()
		var apiErr *ddnsapi.Error
		if errors.As(err, &apiErr) {
			sub.StatusCode = apiErr.StatusCode
			sub.Response = apiErr.Summary()
		}
		sub.Duration = s.now().Sub(start)
		results <- sub
	}

	s.submitter.NewRecodeWithOptions(ctx, rec.Payload(), onSuccess, onFailure, ddnsapi.CallOptions{
		ContentType: rec.ContentType,
	})
}

// record journals, measures, logs and publishes a finished submission.
func (s *Service) record(ctx context.Context, sub domain.Submission) {
	metrics.ObserveSubmission(sub.Outcome, sub.Duration)

	if sub.Succeeded() {
		s.log.InfoObj("record created", "recode_result", map[string]any{
			"record_id":   sub.RecordID,
			"duration_ms": sub.Duration.Milliseconds(),
		})
		if s.journal != nil {
			if err := s.journal.MarkRecord(sub.Fingerprint, sub.RecordID); err != nil {
				s.log.ErrorObj("journal write failed", "journal_error", map[string]any{
					"record_id": sub.RecordID,
					"error":     err.Error(),
				})
			}
		}
	} else {
		s.log.WarnObj("record submission failed", "recode_error", map[string]any{
			"record_id":   sub.RecordID,
			"status_code": sub.StatusCode,
			"error":       sub.Error,
		})
	}

	if s.publisher == nil {
		return
	}
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(sub))
	if err != nil {
		metrics.IncEvent("error")
		s.log.ErrorObj("outcome event publish failed", "publish_error", map[string]any{
			"record_id": sub.RecordID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	if delivered > 0 {
		metrics.IncEvent("ok")
	}
}

func snippet(body []byte) string {
	if len(body) > maxResponseSnippet {
		return string(body[:maxResponseSnippet]) + "..."
	}
	return string(body)
}
