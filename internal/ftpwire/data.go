package ftpwire

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

var (
	// pasvPattern matches "227 Entering Passive Mode (h1,h2,h3,h4,p1,p2)".
	pasvPattern = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

	// epsvPattern matches "229 Entering Extended Passive Mode (|||port|)".
	epsvPattern = regexp.MustCompile(`\(\|\|\|(\d+)\|\)`)
)

// parsePASV extracts the data connection address from a PASV reply.
// "227 Entering Passive Mode (192,168,1,1,195,149)" -> "192.168.1.1:50069".
func parsePASV(message string) (string, error) {
	matches := pasvPattern.FindStringSubmatch(message)
	if len(matches) != 7 {
		return "", fmt.Errorf("invalid PASV reply %q", message)
	}

	var octets [4]int
	for i := range 4 {
		val, err := strconv.Atoi(matches[i+1])
		if err != nil || val < 0 || val > 255 {
			return "", fmt.Errorf("invalid PASV address octet %q", matches[i+1])
		}
		octets[i] = val
	}
	host := fmt.Sprintf("%d.%d.%d.%d", octets[0], octets[1], octets[2], octets[3])

	hi, err1 := strconv.Atoi(matches[5])
	lo, err2 := strconv.Atoi(matches[6])
	if err1 != nil || err2 != nil || hi < 0 || hi > 255 || lo < 0 || lo > 255 {
		return "", fmt.Errorf("invalid PASV port in %q", message)
	}

	return net.JoinHostPort(host, strconv.Itoa(hi*256+lo)), nil
}

// parseEPSV extracts the data port from an EPSV reply.
// "229 Entering Extended Passive Mode (|||6446|)" -> "6446".
func parseEPSV(message string) (string, error) {
	matches := epsvPattern.FindStringSubmatch(message)
	if len(matches) != 2 {
		return "", fmt.Errorf("invalid EPSV reply %q", message)
	}
	port, err := strconv.Atoi(matches[1])
	if err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("invalid EPSV port %q", matches[1])
	}
	return matches[1], nil
}

// resolveDataAddr substitutes the control connection host when a PASV
// reply advertises 0.0.0.0, a common misconfiguration on NATed servers.
func resolveDataAddr(pasvAddr, controlHost string) string {
	host, port, err := net.SplitHostPort(pasvAddr)
	if err != nil {
		return pasvAddr
	}
	if host == "0.0.0.0" {
		return net.JoinHostPort(controlHost, port)
	}
	return pasvAddr
}

// openDataConn opens a passive-mode data connection, preferring EPSV
// and falling back to PASV when the server does not implement it.
func (c *Client) openDataConn() (net.Conn, error) {
	var addr string

	if !c.disableEPSV {
		reply, err := c.sendCommand("EPSV")
		if err != nil {
			return nil, err
		}
		switch {
		case reply.Code == 500 || reply.Code == 502:
			c.disableEPSV = true
		case reply.ok():
			if port, parseErr := parseEPSV(reply.Message); parseErr == nil {
				addr = net.JoinHostPort(c.host, port)
			}
		}
	}

	if addr == "" {
		reply, err := c.sendCommand("PASV")
		if err != nil {
			return nil, err
		}
		if !reply.ok() {
			return nil, &ReplyError{Cmd: "PASV", Code: reply.Code, Message: reply.Message}
		}
		addr, err = parsePASV(reply.Message)
		if err != nil {
			return nil, err
		}
		addr = resolveDataAddr(addr, c.host)
	}

	dataConn, err := c.dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open data connection to %s: %w", addr, err)
	}
	return dataConn, nil
}
