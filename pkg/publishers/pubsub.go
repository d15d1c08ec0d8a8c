package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/0x6666/ddns-client/internal/logger"
	"google.golang.org/api/option"
)

// gcpPubSubSender publishes events to a Google Cloud Pub/Sub topic.
type gcpPubSubSender struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", cfg.ID)
	}
	s, err := newGCPPubSubSender(ctx, cfg.PubSub, log)
	if err != nil {
		return nil, err
	}
	return newQueuePublisher(cfg.ID, TypePubSub, s, log), nil
}

func newGCPPubSubSender(ctx context.Context, cfg *GCPQueueConfig, log logger.Logger) (*gcpPubSubSender, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubSender{
		client: client,
		topic:  client.Topic(cfg.Topic),
		log:    ensureLogger(log),
	}, nil
}

// Send publishes the event and waits for the server-assigned id.
func (g *gcpPubSubSender) Send(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res := g.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: evt.attributes(),
	})
	id, err := res.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	g.log.DebugObj("pubsub message accepted", "pubsub_message_id", id)
	return nil
}

// Close flushes pending messages and closes the client.
func (g *gcpPubSubSender) Close() error {
	g.topic.Stop()
	return g.client.Close()
}
