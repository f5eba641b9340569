// Package main provides the entry point for the ftpripper CLI.
//
// ftpripper enumerates the file listings of anonymous FTP servers.
// It walks every readable directory, records each file as an ftp://
// reference, and summarizes what it found by file type.
//
// Usage:
//
//	ftpripper crawl <host[:port]>
//	ftpripper crawl --mode file <hosts.txt>
//	ftpripper crawl --mode nmap <scan.xml>
//
// See --help for all available options.
package main

// main is the entry point for ftpripper.
func main() {
	Execute()
}
