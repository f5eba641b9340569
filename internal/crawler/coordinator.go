package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/ftpripper/internal/model"
)

// DialFunc opens a connected, logged-in session for one target.
// The coordinator calls it once per target; FTP has no session reuse
// across endpoints, so every task gets a fresh connection.
type DialFunc func(ctx context.Context, target model.Target) (Session, error)

// Coordinator runs one walker session per target over a bounded worker
// pool and folds completions into the run summary.
//
// Design decision: workers never touch the output sink or the running
// histogram. Every completion flows over a channel drained by the
// goroutine that called Run, which is therefore the only writer of
// both — no locks, and one host's file lines land in the sink as one
// uninterrupted burst.
type Coordinator struct {
	dial DialFunc
	stop *Stop

	// sink receives one ftp:// reference per line. Writes happen only
	// on the Run goroutine.
	sink io.Writer

	// threads caps concurrent sessions. Zero means one per logical CPU.
	threads int

	// delay is the per-session politeness pause between directory
	// listings. Zero disables pacing.
	delay time.Duration

	logger *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithThreads caps the number of concurrent sessions.
func WithThreads(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.threads = n
		}
	}
}

// WithDelay sets the per-session pause between directory listings.
func WithDelay(delay time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.delay = delay
	}
}

// WithSink sets the destination for discovered file references.
func WithSink(sink io.Writer) CoordinatorOption {
	return func(c *Coordinator) {
		c.sink = sink
	}
}

// WithCoordinatorLogger sets the logger for run and per-host events.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a Coordinator. dial opens sessions, stop is
// the shared cancellation flag checked before and during every crawl.
func NewCoordinator(dial DialFunc, stop *Stop, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		dial:    dial,
		stop:    stop,
		sink:    io.Discard,
		threads: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Run crawls every target and returns the run summary. All tasks are
// submitted up front; completions are consumed in whatever order they
// arrive. One host's failure never aborts the run — the only error Run
// itself returns is a sink write failure, and even then every task is
// drained first so the summary is complete.
func (c *Coordinator) Run(ctx context.Context, targets []model.Target) (*model.RunSummary, error) {
	started := time.Now()
	c.logger.Info("starting crawl",
		"targets", len(targets),
		"threads", c.threads,
	)

	results := make(chan *model.HostResult)

	// Submission happens off the Run goroutine: once the pool is full,
	// g.Go blocks until a worker finishes, and a worker only finishes
	// after its result is drained below. Submitting here would wedge
	// the drain loop whenever targets outnumber threads.
	go func() {
		var g errgroup.Group
		g.SetLimit(c.threads)
		for _, target := range targets {
			g.Go(func() error {
				results <- c.crawlOne(ctx, target)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // Workers always return nil; outcomes travel in results
		close(results)
	}()

	summary := &model.RunSummary{
		StartedAt:  started,
		Extensions: model.NewHistogram(),
	}

	var sinkErr error
	for hr := range results {
		summary.Hosts = append(summary.Hosts, hr)

		if hr.Status == model.HostFailed {
			c.logger.Warn("host failed",
				"host", hr.Target,
				"reason", hr.FailReason,
			)
			continue
		}

		if err := c.writeBurst(hr); err != nil && sinkErr == nil {
			sinkErr = err
		}
		summary.Extensions.Fold(model.HistogramOf(hr.Paths))

		c.logger.Info("host done",
			"host", hr.Target,
			"status", hr.Status,
			"files", hr.FileCount(),
			"diagnostics", len(hr.Diags),
		)
	}

	summary.Elapsed = time.Since(started)
	c.logger.Info("crawl complete",
		"targets", len(targets),
		"files", summary.TotalFiles(),
		"elapsed", summary.Elapsed,
	)

	return summary, sinkErr
}

// crawlOne runs the full lifecycle of one target: stop check, dial,
// walk. Every outcome becomes a HostResult; nothing panics across the
// channel.
func (c *Coordinator) crawlOne(ctx context.Context, target model.Target) *model.HostResult {
	if c.stop.IsSet() {
		return &model.HostResult{
			Target: target,
			Status: model.HostStopped,
			Diags:  []string{fmt.Sprintf("stopped: %s skipped before connecting", target)},
		}
	}

	sess, err := c.dial(ctx, target)
	if err != nil {
		return &model.HostResult{
			Target:     target,
			Status:     model.HostFailed,
			FailReason: err.Error(),
		}
	}

	var walkerOpts []WalkerOption
	if c.delay > 0 {
		walkerOpts = append(walkerOpts, WithWalkerLimiter(rate.NewLimiter(rate.Every(c.delay), 1)))
	}
	walkerOpts = append(walkerOpts, WithWalkerLogger(c.logger))

	result, err := NewWalker(target, sess, c.stop, walkerOpts...).Walk(ctx)
	if err != nil {
		return &model.HostResult{
			Target:     target,
			Status:     model.HostFailed,
			FailReason: err.Error(),
		}
	}

	status := model.HostOK
	if result.Stopped {
		status = model.HostStopped
	}
	return &model.HostResult{
		Target: target,
		Status: status,
		Paths:  result.Paths,
		Diags:  result.Diags,
	}
}

// writeBurst writes one host's file references to the sink as a single
// write, so concurrent hosts can never interleave mid-listing.
func (c *Coordinator) writeBurst(hr *model.HostResult) error {
	if len(hr.Paths) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, path := range hr.Paths {
		sb.WriteString(hr.Target.FileRef(path))
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(c.sink, sb.String()); err != nil {
		return fmt.Errorf("failed to write file listing for %s: %w", hr.Target, err)
	}
	return nil
}
