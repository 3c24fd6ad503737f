package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/api"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/auth"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	apperrors "github.com/MITLibraries/alma-sapinvoices-ui/internal/errors"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// summaryParam reads the optional summary query parameter, falling back to the
// configured default.
func (r *Router) summaryParam(req *http.Request) (bool, error) {
	raw := req.URL.Query().Get("summary")
	if raw == "" {
		return r.svc.SummaryLogs(), nil
	}
	summary, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.ErrBadRequest(fmt.Sprintf("invalid summary value '%s'", raw), err)
	}
	return summary, nil
}

func (r *Router) handleStatusPage(w http.ResponseWriter, req *http.Request) {
	taskID, ok := r.getRequiredURLParam(w, req, "taskID")
	if !ok {
		return
	}
	auth.LogActivity(req.Context(), r.logger, fmt.Sprintf("checked the status for task '%s'.", taskID))

	summary, err := r.summaryParam(req)
	if err != nil {
		r.renderError(w, req, http.StatusBadRequest, apperrors.GetErrorMessage(err))
		return
	}

	view, err := r.svc.GetTaskStatusAndLogsWithOptions(req.Context(), taskID, summary)
	if err != nil {
		r.handleAndLogError(w, req, err, "get task status")
		return
	}

	r.render(w, req, http.StatusOK, pageStatus, pageData{
		Title:         "Task status",
		TaskID:        taskID,
		Status:        view.Status,
		Logs:          view.Logs,
		Summary:       summary,
		StreamEnabled: r.opts.StreamEnabled,
	})
}

func (r *Router) handleStatusData(w http.ResponseWriter, req *http.Request) {
	taskID, ok := r.getRequiredURLParam(w, req, "taskID")
	if !ok {
		return
	}

	summary, err := r.summaryParam(req)
	if err != nil {
		statusCode, errorCode, details := extractErrorInfo(err)
		writeErrorResponseWithCode(w, statusCode, errorCode, apperrors.GetErrorMessage(err), details)
		return
	}

	view, err := r.svc.GetTaskStatusAndLogsWithOptions(req.Context(), taskID, summary)
	if err != nil {
		r.handleAndLogError(w, req, err, "get task status")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleStatusStream pushes every monitor observation for the task over a
// WebSocket, then the reconciled view, then closes the connection.
func (r *Router) handleStatusStream(w http.ResponseWriter, req *http.Request) {
	taskID, ok := r.getRequiredURLParam(w, req, "taskID")
	if !ok {
		return
	}
	logger := r.GetLoggerFromContext(req.Context())

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Warn("failed to upgrade status stream", "error", err, "task_id", taskID)
		return
	}
	defer func() { _ = conn.Close() }()
	// The server read timeout would otherwise end long-lived streams.
	_ = conn.SetReadDeadline(time.Time{})

	if r.opts.Metrics != nil {
		r.opts.Metrics.StreamOpened(req.Context())
		defer r.opts.Metrics.StreamClosed(context.WithoutCancel(req.Context()))
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	logger.Info("status stream opened", "task_id", taskID)

	result, err := r.svc.WatchTask(ctx, taskID, 0, func(update api.TaskStatusUpdate) {
		if writeErr := writeStreamMessage(conn, api.StatusStreamMessage{
			Type:   api.StreamMessageStatus,
			Update: &update,
		}); writeErr != nil {
			logger.Debug("failed to write status update", "error", writeErr)
			cancel()
		}
	})

	final := api.StatusStreamMessage{Type: api.StreamMessageResult, Result: result}
	if err != nil {
		logger.Error("status stream ended with error", "error", err, "task_id", taskID)
		final = api.StatusStreamMessage{Type: api.StreamMessageError, Error: apperrors.GetErrorMessage(err)}
	}
	if ctx.Err() == nil {
		_ = writeStreamMessage(conn, final)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(constants.WebSocketWriteTimeout))
	}

	logger.Info("status stream closed", "task_id", taskID)
}

func writeStreamMessage(conn *websocket.Conn, msg api.StatusStreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
