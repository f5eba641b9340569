// Package main provides the entry point for the ftpripper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ftpripper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftpripper",
		Short: "Enumerate the file listings of anonymous FTP servers",
		Long: `ftpripper logs into FTP servers anonymously, walks every readable
directory, and records each discovered file as an ftp:// reference.

Targets come from a single host, a host list file, or an nmap XML
report. After the crawl, a summary breaks down the findings by file
extension.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
