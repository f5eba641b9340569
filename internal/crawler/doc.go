// Package crawler walks FTP directory trees and coordinates crawls
// across many servers.
//
// # Architecture
//
//   - Classifier: pairs NLST names with raw LIST lines and decides
//     file versus directory per listing format
//   - Walker: drives one FTP session through a frontier of pending
//     directories, producing absolute file paths and diagnostics
//   - Stop: the process-wide cooperative cancellation flag every
//     in-flight walker polls at its loop checkpoint
//   - Coordinator: the bounded worker pool that runs one walker per
//     target and folds completions into the run summary
//
// # Frontier discipline
//
// The walker's frontier is seeded with the root path. Newly discovered
// subdirectories are inserted at the front, ahead of siblings still
// queued, so expansion leans depth-first without being strict DFS.
// Each path leaves the frontier exactly once, whether or not its
// listing succeeded.
//
// # Failure policy
//
// Permission-class replies (5xx) and unrecognized listing formats skip
// one directory and record a diagnostic; the traversal continues.
// Anything else (connection loss, timeout, protocol fault) aborts the
// session and surfaces as a host-level failure. Errors never cross
// host boundaries: the coordinator records a failed host and moves on.
package crawler
