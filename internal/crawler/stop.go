package crawler

import "sync/atomic"

// Stop is the process-wide cooperative cancellation flag.
//
// It is level-triggered and write-once: the signal path sets it, it is
// never cleared, and any number of walkers read it without locking.
// Walkers poll it at the top of their directory loop; sessions not yet
// started check it before dialing and decline to connect.
type Stop struct {
	flag atomic.Bool
}

// NewStop returns an unset stop flag.
func NewStop() *Stop {
	return &Stop{}
}

// Set raises the flag. Calling Set more than once is harmless.
func (s *Stop) Set() {
	s.flag.Store(true)
}

// IsSet reports whether the flag has been raised.
func (s *Stop) IsSet() bool {
	return s.flag.Load()
}
