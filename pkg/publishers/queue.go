package publishers

import (
	"context"
	"fmt"

	"github.com/0x6666/ddns-client/internal/logger"
)

// queuePublisher adapts a sender to the Publisher interface.
type queuePublisher struct {
	id     string
	typ    string
	sender sender
	log    logger.Logger
}

func newQueuePublisher(id, typ string, s sender, log logger.Logger) *queuePublisher {
	return &queuePublisher{id: id, typ: typ, sender: s, log: ensureLogger(log)}
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

// Publish hands the event to the sender and logs the delivery result.
func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	if err := q.sender.Send(ctx, evt); err != nil {
		q.log.ErrorObj("publisher send failed", "publisher_error", map[string]any{
			"publisher_id":   q.id,
			"publisher_type": q.typ,
			"record_id":      evt.RecordID,
			"error":          err.Error(),
		})
		return fmt.Errorf("%s send: %w", q.typ, err)
	}
	q.log.DebugObj("publisher delivered event", "publisher_delivery", map[string]any{
		"publisher_id":   q.id,
		"publisher_type": q.typ,
		"event_id":       evt.ID,
	})
	return nil
}

// Close releases the sender's client when it holds one.
func (q *queuePublisher) Close() error {
	if c, ok := q.sender.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func ensureLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
