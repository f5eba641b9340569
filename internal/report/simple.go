package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/ftpripper/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a crawl finishes.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showDiags controls whether per-host diagnostics are listed.
	showDiags bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithDiagnostics configures the writer to list per-host diagnostics.
func WithDiagnostics(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showDiags = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showDiags:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeExtensions(&sb, summary)
	w.writeHosts(&sb, summary)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run header with overall counts.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         FTPRIPPER SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Started:  %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Hosts:    %d crawled, %d failed, %d stopped\n",
		summary.CountByStatus(model.HostOK),
		summary.CountByStatus(model.HostFailed),
		summary.CountByStatus(model.HostStopped)))
	sb.WriteString(fmt.Sprintf("Total:    %d files\n", summary.TotalFiles()))
	sb.WriteString("\n")
}

// writeExtensions writes the per-extension histogram in alphabetical
// order, then the extensionless bucket.
func (w *SimpleWriter) writeExtensions(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FILE TYPES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	exts := summary.Extensions.Extensions()
	if len(exts) == 0 && summary.Extensions.Unknown() == 0 {
		sb.WriteString("  No files found\n\n")
		return
	}

	for _, ext := range exts {
		sb.WriteString(fmt.Sprintf("  %-12s %d\n", ext, summary.Extensions[ext]))
	}
	if unknown := summary.Extensions.Unknown(); unknown > 0 {
		sb.WriteString(fmt.Sprintf("  %-12s %d\n", "(unknown)", unknown))
	}
	sb.WriteString("\n")
}

// writeHosts writes the per-host outcome lines.
func (w *SimpleWriter) writeHosts(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Hosts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("HOSTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, hr := range summary.Hosts {
		switch hr.Status {
		case model.HostFailed:
			sb.WriteString(fmt.Sprintf("  [x] %-28s %s\n", hr.Target, hr.FailReason))
		case model.HostStopped:
			sb.WriteString(fmt.Sprintf("  [~] %-28s %d files (interrupted)\n", hr.Target, hr.FileCount()))
		default:
			sb.WriteString(fmt.Sprintf("  [+] %-28s %d files\n", hr.Target, hr.FileCount()))
		}

		if w.showDiags {
			for _, diag := range hr.Diags {
				sb.WriteString(fmt.Sprintf("      %s\n", diag))
			}
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the run footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Finished in %s\n", summary.Elapsed.Round(time.Millisecond)))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
