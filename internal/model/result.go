package model

// CrawlResult holds everything one walker session produced for a target:
// the absolute paths of every discovered file, in traversal order, and
// the diagnostics for paths that had to be skipped.
//
// Invariant: every path in Paths begins with "/". The walker normalizes
// paths at append time, so the relative root convention (used when the
// server rejects "CWD /") never leaks into results.
type CrawlResult struct {
	// Target is the endpoint this session crawled.
	Target Target

	// Paths contains the absolute path of every discovered file,
	// in the order the traversal found them.
	Paths []string

	// Diags contains one human-readable string per recoverable problem:
	// skipped directories, unrecognized listing formats, and the
	// "stopped" marker when cancellation truncated the traversal.
	Diags []string

	// Stopped records that cooperative cancellation truncated the
	// traversal; Paths then holds only what was found before the stop.
	Stopped bool
}

// Refs renders every path as a fully qualified ftp:// reference.
func (r *CrawlResult) Refs() []string {
	refs := make([]string, len(r.Paths))
	for i, p := range r.Paths {
		refs[i] = r.Target.FileRef(p)
	}
	return refs
}

// HostStatus describes how a crawl task for one target ended.
type HostStatus int

const (
	// HostOK means the session completed its traversal. The result may
	// still carry diagnostics for individual skipped directories.
	HostOK HostStatus = iota

	// HostStopped means cooperative cancellation truncated the session,
	// either before it connected or mid-traversal. Files collected
	// before the stop are kept.
	HostStopped

	// HostFailed means the session died entirely: connect, login,
	// timeout, or an unexpected protocol failure. No files are kept.
	HostFailed
)

// String returns the status name used in logs and reports.
func (s HostStatus) String() string {
	switch s {
	case HostOK:
		return "ok"
	case HostStopped:
		return "stopped"
	case HostFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// HostResult is the per-target outcome handed from a worker to the
// coordinator. Ownership transfers with the value: the worker never
// touches it again after sending it.
type HostResult struct {
	// Target is the endpoint this result describes.
	Target Target

	// Status classifies the outcome.
	Status HostStatus

	// Paths are absolute file paths (empty when the session failed).
	Paths []string

	// Diags are the session diagnostics in the order they occurred.
	Diags []string

	// FailReason holds the session-level error text when Status is
	// HostFailed, empty otherwise.
	FailReason string
}

// FileCount returns the number of files this host contributed.
func (h *HostResult) FileCount() int {
	return len(h.Paths)
}
