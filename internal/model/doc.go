// Package model defines the core data types shared across ftpripper.
//
// The types here are plain values with no behavior beyond construction,
// formatting, and aggregation. Network code lives in ftpwire, traversal
// logic in crawler, and presentation in report; model is imported by all
// of them and imports none of them.
//
//   - Target: one FTP endpoint (address + port) to crawl
//   - CrawlResult: the file paths and diagnostics of one walker session
//   - HostResult: the per-target outcome collected by the coordinator
//   - Histogram: per-extension file counts, foldable across hosts
//   - RunSummary: the final aggregate of a whole run
package model
