package cmd

import (
	"bytes"
	"testing"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputWrapperImplementsInterface(_ *testing.T) {
	var _ OutputInterface = &outputWrapper{}
	var _ OutputInterface = &mockOutputInterface{}
}

func TestOutputWrapper_WritesToOutput(t *testing.T) {
	oldStdout := output.Stdout
	t.Cleanup(func() { output.Stdout = oldStdout })
	buf := &bytes.Buffer{}
	output.Stdout = buf

	wrapper := NewOutputWrapper()
	wrapper.KeyValue("Task ID", "abc123")
	wrapper.Lines([]string{"SAP invoice process completed"})
	require.NoError(t, wrapper.Encode(output.FormatJSON, map[string]string{"status": "COMPLETED"}))

	assert.Contains(t, buf.String(), "abc123")
	assert.Contains(t, buf.String(), "SAP invoice process completed\n")
	assert.Contains(t, buf.String(), `"status": "COMPLETED"`)
	assert.Contains(t, wrapper.StatusBadge("RUNNING"), "RUNNING")
	assert.Contains(t, wrapper.Bold("abc123"), "abc123")
}
