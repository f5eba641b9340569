package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/ftpripper/internal/model"
)

// JSONWriter outputs run summaries in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *model.RunSummary) (int, error) {
	return w.writeJSON(newJSONSummary(summary))
}

// writeJSON marshals the given value and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// jsonSummary is the serialized shape of a run summary.
//
// Design decision: We map the summary to a dedicated struct rather
// than tagging model types because this allows us to fix the wire
// format (duration in milliseconds, host status as a string) without
// polluting the core data structures.
type jsonSummary struct {
	// StartedAt is the run start time in RFC 3339 format.
	StartedAt time.Time `json:"started_at"`

	// ElapsedMS is the wall-clock run duration in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`

	// TotalFiles is the number of files discovered across all hosts.
	TotalFiles int `json:"total_files"`

	// Extensions maps file extensions to counts. Extensionless files
	// are counted under the empty key.
	Extensions map[string]int `json:"extensions"`

	// Hosts holds one entry per target, in completion order.
	Hosts []jsonHost `json:"hosts"`
}

// jsonHost is the serialized per-target outcome.
type jsonHost struct {
	Address    string   `json:"address"`
	Port       int      `json:"port"`
	Status     string   `json:"status"`
	Files      int      `json:"files"`
	Diags      []string `json:"diagnostics,omitempty"`
	FailReason string   `json:"fail_reason,omitempty"`
}

// newJSONSummary maps a run summary to its serialized shape.
func newJSONSummary(summary *model.RunSummary) *jsonSummary {
	js := &jsonSummary{
		StartedAt:  summary.StartedAt,
		ElapsedMS:  summary.Elapsed.Milliseconds(),
		TotalFiles: summary.TotalFiles(),
		Extensions: summary.Extensions,
		Hosts:      make([]jsonHost, 0, len(summary.Hosts)),
	}
	for _, hr := range summary.Hosts {
		js.Hosts = append(js.Hosts, jsonHost{
			Address:    hr.Target.Address,
			Port:       hr.Target.Port,
			Status:     hr.Status.String(),
			Files:      hr.FileCount(),
			Diags:      hr.Diags,
			FailReason: hr.FailReason,
		})
	}
	return js
}
