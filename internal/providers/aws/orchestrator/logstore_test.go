package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/testutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwlTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudWatchLogStore_DescribeLogStreams(t *testing.T) {
	var captured *cloudwatchlogs.DescribeLogStreamsInput
	client := &mockCloudWatchLogsClient{
		describeLogStreamsFunc: func(
			_ context.Context,
			params *cloudwatchlogs.DescribeLogStreamsInput,
		) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
			captured = params
			return &cloudwatchlogs.DescribeLogStreamsOutput{
				LogStreams: []cwlTypes.LogStream{
					{LogStreamName: aws.String("sapinvoices/alma-sapinvoices-test/abc001")},
					{LogStreamName: aws.String("sapinvoices/alma-sapinvoices-test/abc002")},
				},
				NextToken: aws.String("next"),
			}, nil
		},
	}
	store := NewCloudWatchLogStore(client, testutil.SilentLogger())

	page, err := store.DescribeLogStreams(context.Background(), "alma-sapinvoices-test", aws.String("prev"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"sapinvoices/alma-sapinvoices-test/abc001",
		"sapinvoices/alma-sapinvoices-test/abc002",
	}, page.StreamNames)
	assert.Equal(t, "next", aws.ToString(page.NextToken))
	assert.Equal(t, "alma-sapinvoices-test", aws.ToString(captured.LogGroupName))
	assert.Equal(t, "prev", aws.ToString(captured.NextToken))
}

func TestCloudWatchLogStore_GetLogEvents(t *testing.T) {
	ctx := context.Background()
	req := &contract.LogEventsRequest{
		LogGroup:      "alma-sapinvoices-test",
		LogStream:     "sapinvoices/alma-sapinvoices-test/abc001",
		StartFromHead: true,
	}

	t.Run("maps events", func(t *testing.T) {
		var captured *cloudwatchlogs.GetLogEventsInput
		client := &mockCloudWatchLogsClient{
			getLogEventsFunc: func(
				_ context.Context,
				params *cloudwatchlogs.GetLogEventsInput,
			) (*cloudwatchlogs.GetLogEventsOutput, error) {
				captured = params
				return &cloudwatchlogs.GetLogEventsOutput{
					Events: []cwlTypes.OutputLogEvent{
						{Timestamp: aws.Int64(1000), Message: aws.String("Starting SAP invoices process")},
						{Timestamp: aws.Int64(2000), Message: aws.String("SAP invoice process completed for a review run")},
					},
					NextForwardToken: aws.String("f/1"),
				}, nil
			},
		}
		store := NewCloudWatchLogStore(client, testutil.SilentLogger())

		page, err := store.GetLogEvents(ctx, req)
		require.NoError(t, err)

		require.Len(t, page.Events, 2)
		assert.Equal(t, int64(1000), page.Events[0].Timestamp)
		assert.Equal(t, "SAP invoice process completed for a review run", page.Events[1].Message)
		assert.Equal(t, "f/1", aws.ToString(page.NextForwardToken))
		assert.True(t, aws.ToBool(captured.StartFromHead))
		assert.Equal(t, "sapinvoices/alma-sapinvoices-test/abc001", aws.ToString(captured.LogStreamName))
	})

	t.Run("missing stream", func(t *testing.T) {
		client := &mockCloudWatchLogsClient{
			getLogEventsFunc: func(
				_ context.Context,
				_ *cloudwatchlogs.GetLogEventsInput,
			) (*cloudwatchlogs.GetLogEventsOutput, error) {
				return nil, &cwlTypes.ResourceNotFoundException{Message: aws.String("The specified log stream does not exist.")}
			},
		}
		store := NewCloudWatchLogStore(client, testutil.SilentLogger())

		_, err := store.GetLogEvents(ctx, req)
		assert.ErrorIs(t, err, contract.ErrLogStreamNotFound)
	})

	t.Run("other failure", func(t *testing.T) {
		client := &mockCloudWatchLogsClient{
			getLogEventsFunc: func(
				_ context.Context,
				_ *cloudwatchlogs.GetLogEventsInput,
			) (*cloudwatchlogs.GetLogEventsOutput, error) {
				return nil, errors.New("throttled")
			},
		}
		store := NewCloudWatchLogStore(client, testutil.SilentLogger())

		_, err := store.GetLogEvents(ctx, req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, contract.ErrLogStreamNotFound)
		testutil.AssertAppErrorCode(t, err, appErrors.ErrCodeServiceUnavailable)
	})
}
