package syncer

import (
	"context"

	"github.com/0x6666/ddns-client/pkg/ddnsapi"
	"github.com/0x6666/ddns-client/pkg/publishers"
)

// Submitter issues record creation requests; *ddnsapi.Client satisfies it.
type Submitter interface {
	NewRecodeWithOptions(ctx context.Context, data any, onSuccess ddnsapi.SuccessFunc, onFailure ddnsapi.FailureFunc, opts ddnsapi.CallOptions)
}

// Journal remembers which record versions the server already accepted.
type Journal interface {
	SeenRecord(fingerprint string) (bool, error)
	MarkRecord(fingerprint, recordID string) error
}

// EventPublisher publishes submission outcomes downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
