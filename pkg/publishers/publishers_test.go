package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
  - id: audit
    type: sqs
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/123/recodes
      region: eu-west-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "http2" || enabled[1].ID != "audit" {
		t.Fatalf("expected http2 and audit enabled, got %#v", enabled)
	}
	if enabled[0].HTTP.Method != "POST" || enabled[0].HTTP.TimeoutSeconds != 5 {
		t.Fatalf("http defaults not applied: %#v", enabled[0].HTTP)
	}
	audit, ok := reg.ByID("audit")
	if !ok || audit.SQS.Region != "eu-west-1" {
		t.Fatalf("inline aws auth not decoded: %#v", audit.SQS)
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http block": {ID: "h1", Type: TypeHTTP},
		"sqs without region": {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"sns half credentials": {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{
			TopicARN: "arn:aws:sns:::t",
			AWSAuth:  AWSAuth{Region: "us-east-1", AccessKeyID: "AKIA"},
		}},
		"pubsub without topic": {ID: "p1", Type: TypePubSub, PubSub: &GCPQueueConfig{ProjectID: "proj"}},
		"unknown type":         {ID: "k1", Type: "kafka"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := validatePublisherConfig(cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
