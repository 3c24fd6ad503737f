// Package observability provides the Prometheus-exported OpenTelemetry metrics
// of the web app.
package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys
const (
	attrMethod  = "method"
	attrPath    = "path"
	attrStatus  = "status"
	attrRunType = "run_type"
	attrOutcome = "outcome"
	attrLabel   = "label"
)

func methodAttr(method string) attribute.KeyValue {
	return attribute.String(attrMethod, method)
}

// pathAttr expects a route pattern such as /process-invoices/status/{taskID};
// raw paths with task IDs are normalized to keep cardinality low.
func pathAttr(path string) attribute.KeyValue {
	return attribute.String(attrPath, normalizePath(path))
}

func statusAttr(code int) attribute.KeyValue {
	// 200-299 -> 2xx, 400-499 -> 4xx, 500-599 -> 5xx
	return attribute.String(attrStatus, fmt.Sprintf("%dxx", code/100))
}

func runTypeAttr(runType string) attribute.KeyValue {
	return attribute.String(attrRunType, runType)
}

func outcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String(attrOutcome, outcome)
}

func labelAttr(label string) attribute.KeyValue {
	return attribute.String(attrLabel, label)
}

// normalizePath replaces task IDs in status paths with a placeholder.
func normalizePath(path string) string {
	const prefix = "/process-invoices/status/"
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return path
	}

	rest := path[len(prefix):]
	for i := range len(rest) {
		if rest[i] == '/' {
			return prefix + "{taskID}" + rest[i:]
		}
	}
	return prefix + "{taskID}"
}
