package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient defines the STS operations used to resolve the caller identity.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}
