package model

import (
	"net"
	"net/url"
	"strconv"
)

// Target identifies one FTP endpoint to crawl.
// A Target is immutable once constructed; one Target yields exactly one
// crawl task regardless of how it was sourced (CLI token, host file, or
// scan report).
type Target struct {
	// Address is the hostname or IP address of the FTP server.
	Address string

	// Port is the TCP port of the FTP control connection.
	// Sources fill in the configured default when the input omits it.
	Port int
}

// NewTarget creates a Target from an address and port.
func NewTarget(address string, port int) Target {
	return Target{Address: address, Port: port}
}

// Addr returns the dialable "host:port" form of the target.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Address, strconv.Itoa(t.Port))
}

// String returns the target in "host:port" form for logs and diagnostics.
func (t Target) String() string {
	return t.Addr()
}

// FileRef renders an absolute remote path as a fully qualified
// ftp:// reference for this target. The path portion is percent-escaped
// with slashes preserved, so stripping the "ftp://host:port" prefix and
// unescaping yields the original path.
func (t Target) FileRef(path string) string {
	u := url.URL{
		Scheme: "ftp",
		Host:   t.Addr(),
		Path:   path,
	}
	return u.String()
}
