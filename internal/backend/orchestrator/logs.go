package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/backend/contract"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	appErrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/logger"
	awsConstants "github.com/MITLibraries/alma-sapinvoices-ui/internal/providers/aws/constants"
)

// LogRetriever reads the log stream written by a task run.
type LogRetriever struct {
	store        contract.LogStore
	logGroup     string
	streamPrefix string
	logger       *slog.Logger
}

// NewLogRetriever creates a retriever for logGroup. Streams are named streamPrefix+taskID.
func NewLogRetriever(store contract.LogStore, logGroup, streamPrefix string, log *slog.Logger) *LogRetriever {
	return &LogRetriever{
		store:        store,
		logGroup:     logGroup,
		streamPrefix: streamPrefix,
		logger:       log,
	}
}

// GetLogStreams returns every stream name in the log group.
func (l *LogRetriever) GetLogStreams(ctx context.Context) ([]string, error) {
	var (
		names     []string
		nextToken *string
	)
	for range constants.MaxPaginationPages {
		page, err := l.store.DescribeLogStreams(ctx, l.logGroup, nextToken)
		if err != nil {
			return nil, fmt.Errorf("failed to describe log streams: %w", err)
		}
		names = append(names, page.StreamNames...)
		if page.NextToken == nil {
			return names, nil
		}
		nextToken = page.NextToken
	}

	logger.DeriveRequestLogger(ctx, l.logger).Warn("log stream listing truncated",
		"log_group", l.logGroup, "max_pages", constants.MaxPaginationPages)
	return names, nil
}

// LogStreamExists reports whether a stream for the task exists in the log group.
func (l *LogRetriever) LogStreamExists(ctx context.Context, taskID string) (bool, error) {
	names, err := l.GetLogStreams(ctx)
	if err != nil {
		return false, err
	}
	suffix := "/" + awsConstants.LastSegment(taskID)
	return slices.ContainsFunc(names, func(name string) bool {
		return strings.HasSuffix(name, suffix)
	}), nil
}

// GetLogEvents returns all events of the task's stream in order. It fails with
// LOG_STREAM_NOT_FOUND when the stream does not exist.
func (l *LogRetriever) GetLogEvents(ctx context.Context, taskID string) ([]api.LogEvent, error) {
	taskID = awsConstants.LastSegment(taskID)
	req := &contract.LogEventsRequest{
		LogGroup:      l.logGroup,
		LogStream:     awsConstants.BuildLogStreamName(l.streamPrefix, taskID),
		StartFromHead: true,
	}

	var events []api.LogEvent
	for range constants.MaxPaginationPages {
		page, err := l.store.GetLogEvents(ctx, req)
		if err != nil {
			if errors.Is(err, contract.ErrLogStreamNotFound) {
				return nil, appErrors.ErrLogStreamNotFound(taskID, err)
			}
			return nil, fmt.Errorf("failed to get log events: %w", err)
		}
		events = append(events, page.Events...)

		// The forward token repeats once the end of the stream is reached.
		next := page.NextForwardToken
		if next == nil || (req.NextToken != nil && *next == *req.NextToken) {
			return events, nil
		}
		req.NextToken = next
	}

	logger.DeriveRequestLogger(ctx, l.logger).Warn("log events truncated",
		"log_stream", req.LogStream, "max_pages", constants.MaxPaginationPages)
	return events, nil
}

// GetLogMessages returns the task's log messages. In summary mode only the
// messages from the first summary marker onward are returned. An empty stream
// yields no messages in either mode.
func (l *LogRetriever) GetLogMessages(ctx context.Context, taskID string, summary bool) ([]string, error) {
	events, err := l.GetLogEvents(ctx, taskID)
	if err != nil {
		return nil, err
	}

	messages := make([]string, 0, len(events))
	for _, e := range events {
		messages = append(messages, e.Message)
	}

	if summary && len(messages) > 0 {
		return SummaryMessages(messages), nil
	}
	return messages, nil
}

// SummaryMessages returns the suffix of messages starting at the first one that
// contains a summary marker, or a single "did not complete" message. Empty input
// also gets that message, so GetLogMessages does not call it for an empty stream:
// the status view reports such a task as expired instead.
func SummaryMessages(messages []string) []string {
	idx := slices.IndexFunc(messages, func(m string) bool {
		return slices.ContainsFunc(constants.SummaryMarkers, func(marker string) bool {
			return strings.Contains(m, marker)
		})
	})
	if idx < 0 {
		return []string{constants.ProcessIncompleteMessage}
	}
	return slices.Clone(messages[idx:])
}
