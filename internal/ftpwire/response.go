package ftpwire

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Reply represents one FTP server reply.
type Reply struct {
	// Code is the three-digit reply code (e.g. 220, 550).
	Code int

	// Message is the reply text with the code stripped. For multi-line
	// replies the lines are joined with newlines.
	Message string
}

// ok reports whether the reply is a positive completion (2xx).
func (r *Reply) ok() bool {
	return r.Code >= 200 && r.Code < 300
}

// preliminary reports whether the reply is a positive preliminary (1xx),
// the "transfer starting" class sent before data-channel output.
func (r *Reply) preliminary() bool {
	return r.Code >= 100 && r.Code < 200
}

// readReply reads one complete reply, single- or multi-line.
//
// Single-line: "220 Welcome\r\n". Multi-line replies open with
// "220-..." and close with a line that repeats the code followed by a
// space; anything between belongs to the same reply.
func readReply(r *bufio.Reader) (*Reply, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}

	line = strings.TrimRight(line, "\r\n")
	if len(line) < 4 {
		return nil, fmt.Errorf("short reply line %q", line)
	}

	code, err := strconv.Atoi(line[0:3])
	if err != nil {
		return nil, fmt.Errorf("invalid reply code in %q", line)
	}

	if line[3] == ' ' {
		return &Reply{Code: code, Message: line[4:]}, nil
	}
	if line[3] != '-' {
		return nil, fmt.Errorf("invalid reply separator in %q", line)
	}

	// Multi-line reply: collect until the closing "NNN " line.
	codeStr := line[0:3]
	messages := []string{line[4:]}
	for {
		line, err = r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("truncated multi-line reply: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		if len(line) >= 4 && line[0:3] == codeStr && line[3] == ' ' {
			messages = append(messages, line[4:])
			return &Reply{Code: code, Message: strings.Join(messages, "\n")}, nil
		}
		messages = append(messages, line)
	}
}
