// Package main generates a single markdown file documenting every sapinvoices-ui CLI command.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MITLibraries/alma-sapinvoices-ui/cmd/sapinvoices-ui/cmd"
	"github.com/MITLibraries/alma-sapinvoices-ui/internal/constants"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		log.Fatalf("error: creating output directory: %s", err)
	}

	var buf bytes.Buffer
	if err := generateCLIDocs(&buf, cmd.RootCmd()); err != nil {
		log.Fatalf("error: %s", err)
	}
	if err := os.WriteFile(filepath.Clean(outFile), buf.Bytes(), 0o600); err != nil {
		log.Fatalf("error: writing %s: %s", outFile, err)
	}

	log.Printf("✅ Successfully generated CLI documentation in %s", outFile)
}

func generateCLIDocs(w io.Writer, root *cobra.Command) error {
	root.DisableAutoGenTag = true

	if _, err := fmt.Fprintf(w, "# %s CLI\n\n", constants.ProjectName); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprint(w, "All commands read the same environment variables as the web app; "+
		"`--config` points at an optional YAML file.\n\n"); err != nil {
		return fmt.Errorf("writing introduction: %w", err)
	}

	return writeCommand(w, root, 2)
}

func writeCommand(w io.Writer, c *cobra.Command, level int) error {
	if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
		return nil
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(c, &buf); err != nil {
		return fmt.Errorf("generating markdown for %s: %w", c.CommandPath(), err)
	}

	if _, err := fmt.Fprintf(w, "%s %s\n\n%s\n", strings.Repeat("#", level), c.CommandPath(), c.Short); err != nil {
		return fmt.Errorf("writing heading for %s: %w", c.CommandPath(), err)
	}
	if body := section(buf.String(), "### Synopsis"); body != "" {
		if _, err := fmt.Fprintf(w, "\n%s", body); err != nil {
			return err
		}
	}
	if body := section(buf.String(), "### Options"); body != "" {
		if _, err := fmt.Fprintf(w, "\n**Options:**\n%s", body); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	children := c.Commands()
	sort.Slice(children, func(i, j int) bool { return children[i].Name() < children[j].Name() })
	for _, child := range children {
		if err := writeCommand(w, child, level+1); err != nil {
			return err
		}
	}
	return nil
}

// section returns the text between heading and the next "###" heading.
func section(markdown, heading string) string {
	start := strings.Index(markdown, heading)
	if start < 0 {
		return ""
	}
	body := markdown[start+len(heading):]
	if end := strings.Index(body, "\n### "); end >= 0 {
		body = body[:end]
	}
	return strings.TrimRight(body, "\n") + "\n"
}
