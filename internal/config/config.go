package config

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the behavior expected of an FTP reconnaissance run against
// plain clearnet endpoints; everything is overridable via CLI flags or
// the optional configuration file.
const (
	// DefaultPort is the standard FTP control port, filled in whenever a
	// target source omits an explicit port.
	DefaultPort = 21

	// DefaultTimeout bounds each individual network operation (connect,
	// login, every directory command) independently. FTP servers found
	// by mass scans are often slow or half-dead, so 60 seconds keeps
	// them from stalling the whole run while still giving legitimate
	// servers room to answer.
	DefaultTimeout = 60 * time.Second

	// DefaultOutput is the file-listing destination when -o is not given.
	DefaultOutput = "ftp-files.txt"

	// DefaultHistoryLimit is how many past runs the history command shows.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "ftpripper"
)

// Input modes accepted by the crawl command.
const (
	// ModeHost treats the input as a single "host[:port]" token.
	ModeHost = "host"

	// ModeFile treats the input as a text file with one "host[:port]"
	// per line, blank lines skipped.
	ModeFile = "file"

	// ModeNmap treats the input as an nmap XML report (-oX) and selects
	// entries whose service is ftp and whose state is open.
	ModeNmap = "nmap"
)

// Config holds all options for one crawl run.
// It is populated from CLI flags (optionally backed by a config file)
// and passed through the application by value reference; there is no
// global configuration state.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is small, and the only consumer is the crawl
// command, so nesting would add indirection without benefit.
type Config struct {
	// Mode selects how Input is interpreted: ModeHost, ModeFile, or ModeNmap.
	Mode string

	// Input is the host token, host file path, or nmap XML path.
	Input string

	// Port is the default FTP port applied when a source omits one.
	Port int

	// Threads is the number of concurrent crawl sessions.
	// Zero means "use the machine's logical CPU count".
	Threads int

	// Timeout bounds each individual network operation.
	Timeout time.Duration

	// Delay is the politeness pause between directory listings within
	// one session. Zero disables rate limiting.
	Delay time.Duration

	// Proxy is an optional SOCKS5 proxy address ("host:port") through
	// which all FTP connections are dialed.
	Proxy string

	// Output is the path of the file-listing sink.
	Output string

	// Verbose enables per-directory progress at slog.LevelDebug.
	// It has no effect on crawl behavior.
	Verbose bool

	// JSONReport selects a JSON run summary instead of the
	// human-readable one. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects a Markdown run summary instead of the
	// human-readable one. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, writes the run summary to this path
	// instead of stdout.
	ReportFile string

	// NoDB disables recording the run in the history database.
	NoDB bool

	// DBDir is the history database directory.
	// Empty means the XDG data directory for AppName.
	DBDir string
}

// NewConfig creates a Config with default values.
// Non-zero defaults live here rather than in flag definitions so that
// library callers get the same behavior as the CLI.
func NewConfig() *Config {
	return &Config{
		Mode:    ModeHost,
		Port:    DefaultPort,
		Threads: runtime.NumCPU(),
		Timeout: DefaultTimeout,
		Output:  DefaultOutput,
		DBDir:   XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for ftpripper.
// On Linux: ~/.local/share/ftpripper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ftpripper.
// On Linux: ~/.config/ftpripper
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns a sentinel error
// describing the first problem found. It runs once after flag parsing,
// before any connection is opened.
func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}

	switch c.Mode {
	case ModeHost, ModeFile, ModeNmap:
	default:
		return ErrInvalidMode
	}

	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}

	if c.Threads < 0 {
		return ErrInvalidThreads
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.Output == "" {
		return ErrNoOutput
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
