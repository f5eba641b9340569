package ftpwire

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"
)

// Anonymous login credentials. The password is a courtesy contact
// string by FTP convention; servers accepting anonymous logins do not
// verify it.
const (
	anonymousUser = "anonymous"
	anonymousPass = "anonymous@"
)

// Dialer establishes network connections. *net.Dialer satisfies it, as
// does the SOCKS5 dialer from golang.org/x/net/proxy, which is how the
// --proxy flag reaches this package.
type Dialer interface {
	Dial(network, addr string) (net.Conn, error)
}

// Client is one FTP control connection. It is not safe for concurrent
// use; each crawl session owns exactly one Client on one goroutine.
type Client struct {
	// addr is the control connection target in "host:port" form.
	addr string

	// host is the address part of addr, reused when a PASV reply
	// advertises 0.0.0.0 and for EPSV data connections.
	host string

	conn   net.Conn
	reader *bufio.Reader

	dialer  Dialer
	timeout time.Duration
	logger  *slog.Logger

	// disableEPSV is set when the server answers EPSV with 500/502,
	// so later data connections go straight to PASV.
	disableEPSV bool
}

// Option configures a Client before it connects.
type Option func(*Client)

// WithTimeout bounds every network operation (connect and each
// command/reply round trip) independently. Zero disables deadlines.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithDialer sets the dialer used for the control and data
// connections, typically a SOCKS5 proxy dialer.
func WithDialer(dialer Dialer) Option {
	return func(c *Client) {
		c.dialer = dialer
	}
}

// WithLogger sets the logger for protocol-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Dial connects to an FTP server at "host:port" and reads the greeting.
// The returned client is connected but not logged in.
func Dial(addr string, opts ...Option) (*Client, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}

	c := &Client{
		addr:    addr,
		host:    host,
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialer == nil {
		c.dialer = &net.Dialer{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// connect establishes the control connection and consumes the 220 greeting.
func (c *Client) connect() error {
	conn, err := c.dialer.Dial("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)

	reply, err := c.readReplyDeadline()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read greeting from %s: %w", c.addr, err)
	}
	c.logger.Debug("ftp greeting", "addr", c.addr, "code", reply.Code, "banner", reply.Message)

	if reply.Code != 220 {
		conn.Close()
		return &ReplyError{Cmd: "CONNECT", Code: reply.Code, Message: reply.Message}
	}
	return nil
}

// LoginAnonymous performs an anonymous USER/PASS exchange.
// Servers that need no password answer USER with 230 directly.
func (c *Client) LoginAnonymous() error {
	reply, err := c.sendCommand("USER " + anonymousUser)
	if err != nil {
		return err
	}
	if reply.Code == 230 {
		return nil
	}
	if reply.Code != 331 {
		return &ReplyError{Cmd: "USER", Code: reply.Code, Message: reply.Message}
	}

	reply, err = c.sendCommand("PASS " + anonymousPass)
	if err != nil {
		return err
	}
	if reply.Code != 230 {
		return &ReplyError{Cmd: "PASS", Code: reply.Code, Message: reply.Message}
	}
	return nil
}

// ChangeDir changes the remote working directory. The empty path maps
// to "CWD ." for parity with classic clients, so probing an empty root
// convention is harmless.
func (c *Client) ChangeDir(path string) error {
	if path == "" {
		path = "."
	}
	reply, err := c.sendCommand("CWD " + path)
	if err != nil {
		return err
	}
	if !reply.ok() {
		return &ReplyError{Cmd: "CWD", Code: reply.Code, Message: reply.Message}
	}
	return nil
}

// NameList returns the bare entry names of the current working
// directory via NLST. The caller filters "." and "..": some servers
// include them, some do not.
func (c *Client) NameList() ([]string, error) {
	return c.retrLines("NLST")
}

// ListLines returns the raw LIST output of the current working
// directory, one line per entry, exactly as the server sent it.
func (c *Client) ListLines() ([]string, error) {
	return c.retrLines("LIST")
}

// Quit closes the session: QUIT on a best-effort basis, then the
// control connection. Safe to call on a half-dead client.
func (c *Client) Quit() error {
	if c.conn == nil {
		return nil
	}
	_, _ = c.sendCommand("QUIT")
	err := c.conn.Close()
	c.conn = nil
	return err
}

// sendCommand writes one command line and reads the reply, with both
// directions bounded by the configured timeout.
func (c *Client) sendCommand(cmd string) (*Reply, error) {
	c.logger.Debug("ftp command", "addr", c.addr, "cmd", cmd)

	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, fmt.Errorf("failed to set write deadline: %w", err)
		}
	}
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", cmd); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", commandWord(cmd), err)
	}

	reply, err := c.readReplyDeadline()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s reply: %w", commandWord(cmd), err)
	}
	c.logger.Debug("ftp reply", "addr", c.addr, "code", reply.Code, "message", reply.Message)
	return reply, nil
}

// readReplyDeadline reads one reply with the read deadline applied.
func (c *Client) readReplyDeadline() (*Reply, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}
	return readReply(c.reader)
}

// retrLines runs a data-channel command (NLST or LIST) and returns the
// lines it produced. The exchange is: open a passive data connection,
// send the command, expect a 1xx/2xx reply, drain the data channel,
// then read the transfer-complete reply on the control channel.
func (c *Client) retrLines(cmd string) ([]string, error) {
	dataConn, err := c.openDataConn()
	if err != nil {
		return nil, err
	}

	reply, err := c.sendCommand(cmd)
	if err != nil {
		dataConn.Close()
		return nil, err
	}
	if !reply.preliminary() && !reply.ok() {
		dataConn.Close()
		return nil, &ReplyError{Cmd: cmd, Code: reply.Code, Message: reply.Message}
	}

	if c.timeout > 0 {
		if err := dataConn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			dataConn.Close()
			return nil, fmt.Errorf("failed to set data deadline: %w", err)
		}
	}

	var lines []string
	scanner := bufio.NewScanner(dataConn)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		dataConn.Close()
		return nil, fmt.Errorf("failed to read %s data: %w", cmd, err)
	}
	if err := dataConn.Close(); err != nil {
		return nil, fmt.Errorf("failed to close data connection: %w", err)
	}

	// Transfer-complete reply (usually 226).
	final, err := c.readReplyDeadline()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s completion: %w", cmd, err)
	}
	if !final.ok() {
		return nil, &ReplyError{Cmd: cmd, Code: final.Code, Message: final.Message}
	}

	return lines, nil
}

// commandWord returns the verb of a command line for error messages.
func commandWord(cmd string) string {
	if i := strings.IndexByte(cmd, ' '); i > 0 {
		return cmd[:i]
	}
	return cmd
}
