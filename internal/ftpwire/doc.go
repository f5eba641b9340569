// Package ftpwire implements the small FTP client subset ftpripper
// needs to enumerate files: connect, anonymous login, change directory,
// name listing (NLST), raw directory listing (LIST), and quit.
//
// Design decision: we implement the wire client here rather than using
// a full-featured FTP library because:
//  1. The entry classifier works on raw LIST lines; client libraries
//     parse listings into entry structs and discard the raw text
//  2. Only five operations are needed, all read-only
//  3. Per-operation deadlines and SOCKS5 dialing stay under our control
//
// The control channel follows RFC 959: one command per round trip,
// three-digit reply codes, multi-line replies joined by the dash
// continuation convention. Data connections use passive mode only
// (EPSV with PASV fallback); a crawler behind NAT cannot accept
// active-mode connections anyway.
//
// Every network operation is bounded by the configured timeout via
// connection deadlines. Reply errors carry the command and code so
// callers can tell a permission denial (5xx) from a dead session.
package ftpwire
