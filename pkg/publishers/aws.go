package publishers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// AWSAuth selects the region and, optionally, static credentials. Without
// static keys the default credential chain is used.
type AWSAuth struct {
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

func (a AWSAuth) static() bool { return a.AccessKeyID != "" && a.SecretAccessKey != "" }

func loadAWSConfig(ctx context.Context, auth AWSAuth) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(auth.Region)}
	if auth.static() {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(auth.AccessKeyID, auth.SecretAccessKey, auth.SessionToken),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
