package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/net/proxy"

	"github.com/nao1215/ftpripper/internal/config"
	"github.com/nao1215/ftpripper/internal/crawler"
	"github.com/nao1215/ftpripper/internal/database"
	"github.com/nao1215/ftpripper/internal/ftpwire"
	"github.com/nao1215/ftpripper/internal/log"
	"github.com/nao1215/ftpripper/internal/model"
	"github.com/nao1215/ftpripper/internal/report"
	"github.com/nao1215/ftpripper/internal/source"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <input>",
		Short: "Crawl FTP servers and record every reachable file",
		Long: `Crawl logs into each target FTP server anonymously, walks every
readable directory, and appends one ftp:// reference per discovered
file to the output file. Directories the server refuses to enter are
skipped and reported as diagnostics.

The input argument is interpreted according to --mode:
  host   a single "host[:port]" token (default)
  file   a text file with one "host[:port]" per line
  nmap   an nmap XML report (-oX); entries with an open ftp service

Examples:
  # Crawl a single server
  ftpripper crawl ftp.example.com

  # Crawl a server on a non-standard port
  ftpripper crawl ftp.example.com:2121

  # Crawl every host listed in a file, eight at a time
  ftpripper crawl --mode file --threads 8 hosts.txt

  # Crawl the ftp services found by an nmap scan
  ftpripper crawl --mode nmap scan.xml

  # Route connections through a SOCKS5 proxy
  ftpripper crawl --proxy 127.0.0.1:9050 ftp.example.com

  # Write a JSON summary next to the file listing
  ftpripper crawl --json --report summary.json ftp.example.com

Interrupting the run (Ctrl-C) stops it cooperatively: in-flight
directory listings finish, collected results are kept, and the summary
reflects what was found before the stop.`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("mode", "m", config.ModeHost,
		"Input mode: host, file, or nmap")
	cmd.Flags().IntP("port", "p", config.DefaultPort,
		"Default FTP port for targets that omit one")
	cmd.Flags().IntP("threads", "t", 0,
		"Concurrent sessions (0 = number of logical CPUs)")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each network operation")
	cmd.Flags().Duration("delay", 0,
		"Politeness pause between directory listings per session (0 = none)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for all FTP connections (e.g., 127.0.0.1:9050)")
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"File to append discovered ftp:// references to")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run summary to specified file path instead of stdout")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .ftpripper.yml in current or XDG config directory)")
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Cooperative shutdown: the flag stops traversal at the next
	// checkpoint, the context aborts blocking waits.
	stop := crawler.NewStop()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing in-flight listings...")
		stop.Set()
		cancel()
	}()

	return runCrawl(ctx, cfg, stop, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// Configuration file values fill in defaults; explicitly set flags win.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Input = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	foundPath := config.FindConfigFile(configPath)
	if foundPath != "" {
		cf, err := config.LoadConfigFile(foundPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", foundPath, err)
		}
		cfg.ApplyFile(cf)
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if cfg.Mode, err = cmd.Flags().GetString("mode"); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		if cfg.Port, err = cmd.Flags().GetInt("port"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("threads") {
		if cfg.Threads, err = cmd.Flags().GetInt("threads"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("delay") {
		if cfg.Delay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("proxy") {
		if cfg.Proxy, err = cmd.Flags().GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("output") {
		if cfg.Output, err = cmd.Flags().GetString("output"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	if cfg.NoDB, err = cmd.Flags().GetBool("no-db"); err != nil {
		return nil, err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// Credentials in attributes (proxy userinfo, passwords) are masked.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, stop *crawler.Stop, logger *slog.Logger) error {
	targets, err := loadTargets(cfg)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no FTP targets found in %s", cfg.Input)
	}

	dial, err := newDialFunc(cfg, logger)
	if err != nil {
		return err
	}

	// The listing file is appended to, so repeated runs accumulate.
	sink, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer sink.Close()

	coordinator := crawler.NewCoordinator(dial, stop,
		crawler.WithThreads(cfg.Threads),
		crawler.WithDelay(cfg.Delay),
		crawler.WithSink(sink),
		crawler.WithCoordinatorLogger(logger),
	)

	fmt.Printf("Crawling %d target(s)...\n", len(targets))
	summary, runErr := coordinator.Run(ctx, targets)

	if err := outputSummary(cfg, summary); err != nil {
		logger.Error("failed to write summary", "error", err)
	}

	if !cfg.NoDB {
		// History is written even when the run context was cancelled;
		// a stopped run is still a run worth remembering.
		if err := saveRunHistory(context.WithoutCancel(ctx), cfg, summary, logger); err != nil {
			logger.Error("failed to record run history", "error", err)
		}
	}

	return runErr
}

// loadTargets resolves the input argument into FTP targets according
// to the configured mode.
func loadTargets(cfg *config.Config) ([]model.Target, error) {
	switch cfg.Mode {
	case config.ModeHost:
		target, err := source.ParseTarget(cfg.Input, cfg.Port)
		if err != nil {
			return nil, err
		}
		return []model.Target{target}, nil
	case config.ModeFile:
		return source.FromFile(cfg.Input, cfg.Port)
	case config.ModeNmap:
		return source.FromNmapXML(cfg.Input)
	default:
		return nil, config.ErrInvalidMode
	}
}

// newDialFunc builds the session factory used by the coordinator.
// Every connection is dialed fresh, optionally through a SOCKS5 proxy,
// and logged in anonymously before the walker takes over.
func newDialFunc(cfg *config.Config, logger *slog.Logger) (crawler.DialFunc, error) {
	opts := []ftpwire.Option{
		ftpwire.WithTimeout(cfg.Timeout),
		ftpwire.WithLogger(logger),
	}

	if cfg.Proxy != "" {
		forward := &net.Dialer{Timeout: cfg.Timeout}
		socks, err := proxy.SOCKS5("tcp", cfg.Proxy, nil, forward)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		opts = append(opts, ftpwire.WithDialer(socks))
	}

	return func(_ context.Context, target model.Target) (crawler.Session, error) {
		client, err := ftpwire.Dial(target.Addr(), opts...)
		if err != nil {
			return nil, err
		}
		if err := client.LoginAnonymous(); err != nil {
			_ = client.Quit() //nolint:errcheck // Best effort cleanup
			return nil, err
		}
		return client, nil
	}, nil
}

// outputSummary writes the run summary in the requested format.
func outputSummary(cfg *config.Config, summary *model.RunSummary) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithDiagnostics(cfg.Verbose))
	}

	_, err := writer.Write(summary)
	return err
}

// saveRunHistory records the finished run in the history database.
func saveRunHistory(ctx context.Context, cfg *config.Config, summary *model.RunSummary, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, summary)
	if err != nil {
		return err
	}
	logger.Info("run recorded", "id", runID, "db", db.Path())
	return nil
}
