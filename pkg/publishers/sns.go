package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/0x6666/ddns-client/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// awsSNSSender fans events out through an SNS topic.
type awsSNSSender struct {
	topicARN string
	client   snsClient
	log      logger.Logger
}

func newSNSPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("publisher %q missing sns configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.AWSAuth)
	if err != nil {
		return nil, err
	}

	s := &awsSNSSender{
		topicARN: cfg.SNS.TopicARN,
		client:   sns.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}
	return newQueuePublisher(cfg.ID, TypeSNS, s, log), nil
}

func (s *awsSNSSender) Send(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attrs := make(map[string]types.MessageAttributeValue)
	for k, v := range evt.attributes() {
		attrs[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(s.topicARN),
		Message:           aws.String(string(payload)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("sns message accepted", "sns_message_id", aws.ToString(out.MessageId))
	return nil
}
