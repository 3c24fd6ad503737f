// Package aws contains AWS-specific configuration helpers for sapinvoices-ui.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
)

// LoadSDKConfig loads the AWS SDK configuration from the environment,
// pinning the region when one is provided.
func LoadSDKConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsConfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsConfig.WithRegion(region))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS SDK configuration: %w", err)
	}
	return awsCfg, nil
}
