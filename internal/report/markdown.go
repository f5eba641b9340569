package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/ftpripper/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeExtensions(md, summary)
	w.writeHosts(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run header with overall counts.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("FTP Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.String()},
			{"Hosts crawled", strconv.Itoa(summary.CountByStatus(model.HostOK))},
			{"Hosts failed", strconv.Itoa(summary.CountByStatus(model.HostFailed))},
			{"Hosts stopped", strconv.Itoa(summary.CountByStatus(model.HostStopped))},
			{"Total files", strconv.Itoa(summary.TotalFiles())},
		},
	})
	md.PlainText("")

	if summary.CountByStatus(model.HostStopped) > 0 {
		md.Warning("The run was interrupted; results are partial.")
		md.PlainText("")
	}
}

// writeExtensions writes the per-extension histogram with a pie chart
// of the distribution.
func (w *MarkdownWriter) writeExtensions(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("File Types")
	md.PlainText("")

	exts := summary.Extensions.Extensions()
	unknown := summary.Extensions.Unknown()
	if len(exts) == 0 && unknown == 0 {
		md.PlainText("No files found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(exts)+1)
	for _, ext := range exts {
		rows = append(rows, []string{"`" + ext + "`", strconv.Itoa(summary.Extensions[ext])})
	}
	if unknown > 0 {
		rows = append(rows, []string{"(unknown)", strconv.Itoa(unknown)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Extension", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
}

// writePieChart writes a mermaid pie chart of the extension
// distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("File Type Distribution"),
		piechart.WithShowData(true),
	)

	for _, ext := range summary.Extensions.Extensions() {
		chart.LabelAndIntValue(ext, uint64(summary.Extensions[ext]))
	}
	if unknown := summary.Extensions.Unknown(); unknown > 0 {
		chart.LabelAndIntValue("unknown", uint64(unknown))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeHosts writes the per-host outcome table.
func (w *MarkdownWriter) writeHosts(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Hosts")
	md.PlainText("")

	if len(summary.Hosts) == 0 {
		md.PlainText("No targets were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.Hosts))
	for _, hr := range summary.Hosts {
		detail := hr.FailReason
		if detail == "" && len(hr.Diags) > 0 {
			detail = strconv.Itoa(len(hr.Diags)) + " diagnostic(s)"
		}
		if detail == "" {
			detail = "-"
		}
		rows = append(rows, []string{
			"`" + hr.Target.String() + "`",
			w.statusBadge(hr.Status),
			strconv.Itoa(hr.FileCount()),
			truncateString(detail, 60),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Host", "Status", "Files", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusBadge returns a visual marker for the host status.
func (w *MarkdownWriter) statusBadge(status model.HostStatus) string {
	switch status {
	case model.HostOK:
		return "✅ ok"
	case model.HostStopped:
		return "⚠️ stopped"
	case model.HostFailed:
		return "❌ failed"
	default:
		return status.String()
	}
}

// writeFooter writes the run footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [ftpripper](https://github.com/nao1215/ftpripper)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
