package orchestrator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsClient "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/client"
	awsConstants "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwlTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// CloudWatchLogStore implements contract.LogStore on CloudWatch Logs.
type CloudWatchLogStore struct {
	client awsClient.CloudWatchLogsClient
	logger *slog.Logger
}

// NewCloudWatchLogStore creates a log store backed by the given CloudWatch Logs client.
func NewCloudWatchLogStore(client awsClient.CloudWatchLogsClient, log *slog.Logger) *CloudWatchLogStore {
	return &CloudWatchLogStore{client: client, logger: log}
}

// DescribeLogStreams returns one page of stream names in the log group.
func (s *CloudWatchLogStore) DescribeLogStreams(
	ctx context.Context,
	logGroup string,
	nextToken *string,
) (*contract.LogStreamsPage, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.logger)
	logArgs := []any{
		"operation", "CloudWatchLogs.DescribeLogStreams",
		"log_group", logGroup,
		"has_next_token", nextToken != nil,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := s.client.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(logGroup),
		NextToken:    nextToken,
		Limit:        aws.Int32(awsConstants.CloudWatchLogsDescribeLimit),
	})
	if err != nil {
		return nil, translateAWSError("CloudWatchLogs.DescribeLogStreams", err)
	}

	page := &contract.LogStreamsPage{
		StreamNames: make([]string, 0, len(out.LogStreams)),
		NextToken:   out.NextToken,
	}
	for _, stream := range out.LogStreams {
		page.StreamNames = append(page.StreamNames, aws.ToString(stream.LogStreamName))
	}

	return page, nil
}

// GetLogEvents returns one page of events, reading forward from the head of the stream.
func (s *CloudWatchLogStore) GetLogEvents(
	ctx context.Context,
	req *contract.LogEventsRequest,
) (*contract.LogEventsPage, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, s.logger)
	logArgs := []any{
		"operation", "CloudWatchLogs.GetLogEvents",
		"log_group", req.LogGroup,
		"log_stream", req.LogStream,
		"has_next_token", req.NextToken != nil,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := s.client.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(req.LogGroup),
		LogStreamName: aws.String(req.LogStream),
		StartFromHead: aws.Bool(req.StartFromHead),
		NextToken:     req.NextToken,
		Limit:         aws.Int32(awsConstants.CloudWatchLogsEventsLimit),
	})
	if err != nil {
		var rnf *cwlTypes.ResourceNotFoundException
		if errors.As(err, &rnf) {
			return nil, contract.ErrLogStreamNotFound
		}
		return nil, translateAWSError("CloudWatchLogs.GetLogEvents", err)
	}

	page := &contract.LogEventsPage{
		Events:           make([]api.LogEvent, 0, len(out.Events)),
		NextForwardToken: out.NextForwardToken,
	}
	for _, e := range out.Events {
		page.Events = append(page.Events, api.LogEvent{
			Timestamp: aws.ToInt64(e.Timestamp),
			Message:   aws.ToString(e.Message),
		})
	}

	return page, nil
}
