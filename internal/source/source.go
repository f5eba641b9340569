package source

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/ftpripper/internal/model"
)

// targetPattern matches a "host[:port]" token. The host part accepts
// hostnames, IPv4 addresses, and the dots/hyphens/underscores that occur
// in real DNS labels; the port part, when present, must be numeric.
var targetPattern = regexp.MustCompile(`^(?P<host>[\w.-]+)(?::(?P<port>\d+))?$`)

// ParseTarget parses one "host[:port]" token into a Target, filling in
// defaultPort when the token has no explicit port.
func ParseTarget(token string, defaultPort int) (model.Target, error) {
	match := targetPattern.FindStringSubmatch(token)
	if match == nil {
		return model.Target{}, fmt.Errorf("invalid target %q: expected host[:port]", token)
	}

	host := match[targetPattern.SubexpIndex("host")]
	portStr := match[targetPattern.SubexpIndex("port")]

	port := defaultPort
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p <= 0 || p > 65535 {
			return model.Target{}, fmt.Errorf("invalid port in target %q", token)
		}
		port = p
	}

	return model.NewTarget(host, port), nil
}

// FromFile reads targets from a line-oriented host file.
// Blank lines and lines that do not parse as host[:port] are skipped;
// a host file assembled from scan output routinely contains noise, and
// dropping a bad line beats aborting a thousand-host run.
func FromFile(path string, defaultPort int) ([]model.Target, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided host file path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open host file: %w", err)
	}
	defer f.Close()

	var targets []model.Target
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		target, err := ParseTarget(line, defaultPort)
		if err != nil {
			continue
		}
		targets = append(targets, target)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read host file: %w", err)
	}

	return targets, nil
}
