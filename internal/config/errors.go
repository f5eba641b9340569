package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than errors
// constructed inside Validate, so callers can branch with errors.Is
// while still getting a readable message. None of these messages need
// dynamic values, so errors.New suffices over fmt.Errorf.
var (
	// ErrNoInput is returned when no host, host file, or report path was given.
	ErrNoInput = errors.New("no input specified: provide a host, host file, or nmap report")

	// ErrInvalidMode is returned for an input mode other than host, file, or nmap.
	ErrInvalidMode = errors.New("invalid mode: must be one of host, file, nmap")

	// ErrInvalidPort is returned when the default port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrInvalidThreads is returned for a negative thread count.
	// Zero is allowed and means "one session per logical CPU".
	ErrInvalidThreads = errors.New("invalid thread count: must be non-negative")

	// ErrInvalidTimeout is returned when the per-operation timeout is not
	// positive. A zero timeout would fail every network operation immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned for a negative politeness delay.
	// Use zero to disable rate limiting.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrNoOutput is returned when the file-listing destination is empty.
	ErrNoOutput = errors.New("no output path specified")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested. Only one summary format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
