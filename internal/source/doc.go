// Package source turns user input into crawl targets.
//
// Three sources are supported: a single "host[:port]" token, a text
// file with one token per line, and an nmap XML report (-oX output)
// from which only open ftp ports are selected. Every source fills in
// the configured default port when the input omits one, so the rest of
// the program only ever sees fully formed targets.
package source
