package model

import (
	"path"
	"sort"
	"time"
)

// Histogram counts files by extension. Extensions keep the exact case
// the server returned and include the leading dot (".txt"); files with
// no extension are counted under the empty string key and presented as
// the "unknown" bucket.
//
// A Histogram is not safe for concurrent use. Each host's histogram is
// built by the worker that finished that host, and the run total is
// folded only by the coordinator's drain loop, so no locking is needed.
type Histogram map[string]int

// NewHistogram returns an empty histogram.
func NewHistogram() Histogram {
	return make(Histogram)
}

// HistogramOf builds a histogram from a list of file paths.
func HistogramOf(paths []string) Histogram {
	h := NewHistogram()
	for _, p := range paths {
		h.Add(p)
	}
	return h
}

// Add counts one file path under its extension.
func (h Histogram) Add(filePath string) {
	h[path.Ext(filePath)]++
}

// Fold adds every count from other into h.
func (h Histogram) Fold(other Histogram) {
	for ext, n := range other {
		h[ext] += n
	}
}

// Total returns the total number of files counted.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Extensions returns the non-empty extension keys in sorted order.
// The empty key (extensionless files) is reported via Unknown instead.
func (h Histogram) Extensions() []string {
	exts := make([]string, 0, len(h))
	for ext := range h {
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Unknown returns the count of files without an extension.
func (h Histogram) Unknown() int {
	return h[""]
}

// RunSummary is the final aggregate of one run across all targets.
// It is assembled by the coordinator after the last completion drains
// and is the input to every report writer and the history database.
type RunSummary struct {
	// StartedAt is when the coordinator began dispatching tasks.
	StartedAt time.Time

	// Elapsed is the wall-clock duration of the whole run.
	Elapsed time.Duration

	// Hosts holds one result per target, in completion order.
	Hosts []*HostResult

	// Extensions is the run-wide extension histogram, folded from
	// successful and stopped hosts only.
	Extensions Histogram
}

// TotalFiles returns the number of files discovered across all hosts.
func (s *RunSummary) TotalFiles() int {
	return s.Extensions.Total()
}

// CountByStatus returns how many hosts ended with the given status.
func (s *RunSummary) CountByStatus(status HostStatus) int {
	n := 0
	for _, h := range s.Hosts {
		if h.Status == status {
			n++
		}
	}
	return n
}
