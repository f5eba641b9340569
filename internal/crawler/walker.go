package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/nao1215/ftpripper/internal/ftpwire"
	"github.com/nao1215/ftpripper/internal/model"
)

// Session is the FTP connection surface the walker needs. ftpwire.Client
// satisfies it; tests use an in-memory fake.
//
// The session is assumed to be connected and logged in; the walker owns
// it from the first ChangeDir to Quit.
type Session interface {
	// ChangeDir changes the remote working directory.
	ChangeDir(path string) error

	// NameList returns the entry names of the current directory.
	NameList() ([]string, error)

	// ListLines returns the raw LIST output of the current directory.
	ListLines() ([]string, error)

	// Quit closes the session.
	Quit() error
}

// Walker traverses one target's directory tree over one session.
type Walker struct {
	target model.Target
	sess   Session
	stop   *Stop

	// limiter paces directory round trips; nil means no pacing.
	limiter *rate.Limiter

	logger *slog.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithWalkerLimiter sets a politeness limiter applied before each
// directory round trip.
func WithWalkerLimiter(limiter *rate.Limiter) WalkerOption {
	return func(w *Walker) {
		w.limiter = limiter
	}
}

// WithWalkerLogger sets the logger for per-directory progress.
func WithWalkerLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker creates a Walker for one connected session.
func NewWalker(target model.Target, sess Session, stop *Stop, opts ...WalkerOption) *Walker {
	w := &Walker{
		target: target,
		sess:   sess,
		stop:   stop,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Walk traverses the target's directory tree and returns the crawl
// result. The session is closed on every exit path.
//
// Recoverable problems (permission denials, unrecognized listings)
// skip one directory and land in the result's diagnostics. Any other
// error aborts the session and is returned; files collected up to that
// point are discarded by the caller, matching the all-or-nothing
// contract of a host-level failure.
func (w *Walker) Walk(ctx context.Context) (*model.CrawlResult, error) {
	defer func() {
		if err := w.sess.Quit(); err != nil {
			w.logger.Debug("session close failed", "host", w.target, "error", err)
		}
	}()

	root, err := w.probeRoot()
	if err != nil {
		return nil, err
	}

	result := &model.CrawlResult{Target: w.target}

	// Frontier of pending directory paths. New subdirectories are
	// prepended ahead of queued siblings; every path leaves the
	// frontier exactly once.
	frontier := []string{root}

	for len(frontier) > 0 {
		// Cancellation checkpoint. An in-flight round trip finishes
		// before this is observed; that is the granularity promised.
		if w.stop.IsSet() {
			result.Stopped = true
			result.Diags = append(result.Diags, w.stoppedDiag())
			break
		}

		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				result.Stopped = true
				result.Diags = append(result.Diags, w.stoppedDiag())
				break
			}
		}

		path := frontier[0]
		dirs, files, err := w.listDirectory(path)
		if err != nil {
			if ftpwire.IsPermission(err) || isFormatError(err) {
				frontier = frontier[1:]
				result.Diags = append(result.Diags,
					fmt.Sprintf("%s: skipped %q: %v", w.target, path, err))
				continue
			}
			return nil, err
		}

		for _, f := range files {
			result.Paths = append(result.Paths, ensureAbsolute(f))
		}
		frontier = append(dirs, frontier[1:]...)

		w.logger.Debug("directory processed",
			"host", w.target,
			"path", path,
			"pending", len(frontier),
			"files", len(result.Paths),
		)
	}

	return result, nil
}

// probeRoot determines the starting path convention. Servers that
// reject "CWD /" with a permission-class reply are crawled relative to
// the login directory instead, with the leading slash restored when
// paths are recorded.
func (w *Walker) probeRoot() (string, error) {
	err := w.sess.ChangeDir("/")
	if err == nil {
		return "/", nil
	}
	if ftpwire.IsPermission(err) {
		w.logger.Debug("root rejected, using relative paths", "host", w.target)
		return "", nil
	}
	return "", err
}

// listDirectory runs one directory round trip: CWD, NLST, LIST,
// classify.
func (w *Walker) listDirectory(path string) (dirs, files []string, err error) {
	if err := w.sess.ChangeDir(path); err != nil {
		return nil, nil, err
	}

	rawNames, err := w.sess.NameList()
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(rawNames))
	for _, name := range rawNames {
		if name == "." || name == ".." {
			continue
		}
		names = append(names, name)
	}

	lines, err := w.sess.ListLines()
	if err != nil {
		return nil, nil, err
	}

	return SplitEntries(path, names, lines)
}

// stoppedDiag is the marker recorded when cancellation truncates the
// traversal.
func (w *Walker) stoppedDiag() string {
	return fmt.Sprintf("stopped: %s traversal cancelled", w.target)
}

// ensureAbsolute restores the leading slash for paths collected under
// the relative root convention.
func ensureAbsolute(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// isFormatError reports whether err is (or wraps) a listing
// FormatError.
func isFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
