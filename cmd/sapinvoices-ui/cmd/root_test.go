package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/MITLibraries/alma-sapinvoices-ui/internal/config"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/output"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      time.Duration
		wantError bool
	}{
		{name: "valid duration minutes", input: "10m", want: 10 * time.Minute},
		{name: "valid duration seconds", input: "30s", want: 30 * time.Second},
		{name: "valid seconds as integer", input: "600", want: 600 * time.Second},
		{name: "empty string defaults to 10m", input: "", want: 10 * time.Minute},
		{name: "invalid format", input: "invalid", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeout(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd().Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "run", "status", "logs", "monitor", "active", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestCommandAnnotations(t *testing.T) {
	assert.Equal(t, "true", serveCmd.Annotations[annotationNoTimeout])
	assert.Equal(t, "true", monitorCmd.Annotations[annotationNoTimeout])
	assert.Equal(t, "true", versionCmd.Annotations[annotationOptionalConfig])
	assert.Empty(t, runCmd.Annotations)
}

func TestPrintHeader(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantHeader bool
	}{
		{name: "no format flag", wantHeader: true},
		{name: "text", format: "text", wantHeader: true},
		{name: "json", format: "json", wantHeader: false},
		{name: "yaml", format: "yaml", wantHeader: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldStdout := output.Stdout
			t.Cleanup(func() { output.Stdout = oldStdout })
			buf := &bytes.Buffer{}
			output.Stdout = buf

			c := &cobra.Command{Use: "status"}
			if tt.format != "" {
				c.Flags().String("format", tt.format, "")
			}

			printHeader(c)

			assert.Equal(t, tt.wantHeader, buf.Len() > 0)
		})
	}
}

func TestGetConfigFromContext(t *testing.T) {
	c := &cobra.Command{}
	c.SetContext(context.Background())

	_, err := getConfigFromContext(c)
	require.Error(t, err)

	cfg := &config.Config{ECSCluster: "alma-sapinvoices-test"}
	c.SetContext(context.WithValue(c.Context(), constants.ConfigCtxKey, cfg))

	got, err := getConfigFromContext(c)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestSummaryFlag(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().Bool("summary", false, "")
		require.NoError(t, c.Flags().Parse(args))
		return c
	}

	assert.True(t, summaryFlag(newCmd(), &mockTaskService{summaryLogs: true}))
	assert.False(t, summaryFlag(newCmd("--summary=false"), &mockTaskService{summaryLogs: true}))
	assert.True(t, summaryFlag(newCmd("--summary"), &mockTaskService{}))
}
