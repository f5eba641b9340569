package ftpwire

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

// scriptedServer is a minimal in-process FTP server for client tests.
// It answers EPSV with 502 so every data transfer goes through the
// PASV path, which keeps the scripting to a single code path.
type scriptedServer struct {
	t *testing.T
	// names and lines hold NLST and LIST payloads keyed by directory.
	names map[string][]string
	lines map[string][]string
	// denied directories answer CWD with 550.
	denied map[string]bool

	cwd string
}

func (s *scriptedServer) start(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		s.serve(conn)
	}()

	return ln.Addr().String()
}

func (s *scriptedServer) serve(conn net.Conn) {
	fmt.Fprintf(conn, "220 scripted server ready\r\n")

	reader := bufio.NewReader(conn)
	var dataLn net.Listener
	defer func() {
		if dataLn != nil {
			_ = dataLn.Close()
		}
	}()

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		verb, arg, _ := strings.Cut(cmd, " ")

		switch verb {
		case "USER":
			fmt.Fprintf(conn, "331 password required\r\n")
		case "PASS":
			fmt.Fprintf(conn, "230 logged in\r\n")
		case "CWD":
			if s.denied[arg] {
				fmt.Fprintf(conn, "550 %s: permission denied\r\n", arg)
			} else {
				s.cwd = arg
				fmt.Fprintf(conn, "250 directory changed\r\n")
			}
		case "EPSV":
			fmt.Fprintf(conn, "502 command not implemented\r\n")
		case "PASV":
			dataLn, err = net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				fmt.Fprintf(conn, "421 cannot listen\r\n")
				continue
			}
			_, portStr, _ := net.SplitHostPort(dataLn.Addr().String())
			port, _ := strconv.Atoi(portStr)
			fmt.Fprintf(conn, "227 Entering Passive Mode (127,0,0,1,%d,%d)\r\n", port/256, port%256)
		case "NLST":
			s.transfer(conn, dataLn, s.names[s.cwd])
			dataLn = nil
		case "LIST":
			s.transfer(conn, dataLn, s.lines[s.cwd])
			dataLn = nil
		case "QUIT":
			fmt.Fprintf(conn, "221 goodbye\r\n")
			return
		default:
			fmt.Fprintf(conn, "500 unknown command\r\n")
		}
	}
}

func (s *scriptedServer) transfer(conn net.Conn, dataLn net.Listener, payload []string) {
	if dataLn == nil {
		fmt.Fprintf(conn, "425 use PASV first\r\n")
		return
	}
	defer dataLn.Close()

	fmt.Fprintf(conn, "150 here comes the listing\r\n")
	dataConn, err := dataLn.Accept()
	if err != nil {
		fmt.Fprintf(conn, "426 data connection failed\r\n")
		return
	}
	for _, line := range payload {
		fmt.Fprintf(dataConn, "%s\r\n", line)
	}
	_ = dataConn.Close()
	fmt.Fprintf(conn, "226 transfer complete\r\n")
}

func TestClientSession(t *testing.T) {
	t.Parallel()

	server := &scriptedServer{
		names: map[string][]string{
			"/": {".", "..", "readme.txt", "pub"},
		},
		lines: map[string][]string{
			"/": {
				"drwxr-xr-x 2 ftp ftp 4096 Jan 10 12:00 pub",
				"-rw-r--r-- 1 ftp ftp  120 Jan 10 12:00 readme.txt",
			},
		},
		denied: map[string]bool{"/secret/": true},
	}
	addr := server.start(t)

	client, err := Dial(addr, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = client.Quit() }()

	if err := client.LoginAnonymous(); err != nil {
		t.Fatalf("LoginAnonymous failed: %v", err)
	}

	if err := client.ChangeDir("/"); err != nil {
		t.Fatalf("ChangeDir failed: %v", err)
	}

	names, err := client.NameList()
	if err != nil {
		t.Fatalf("NameList failed: %v", err)
	}
	if len(names) != 4 || names[2] != "readme.txt" {
		t.Errorf("unexpected names: %v", names)
	}

	lines, err := client.ListLines()
	if err != nil {
		t.Fatalf("ListLines failed: %v", err)
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "drwxr-xr-x") {
		t.Errorf("unexpected lines: %v", lines)
	}

	err = client.ChangeDir("/secret/")
	if err == nil {
		t.Fatal("expected CWD /secret/ to fail")
	}
	if !IsPermission(err) {
		t.Errorf("expected a permission-class error, got %v", err)
	}

	if err := client.Quit(); err != nil {
		t.Errorf("Quit failed: %v", err)
	}
}

func TestDialErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()
		if _, err := Dial("no-port-here"); err == nil {
			t.Error("expected an error for an address without a port")
		}
	})

	t.Run("refused connection", func(t *testing.T) {
		t.Parallel()
		// Listen and close immediately to get a port nobody serves.
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addr := ln.Addr().String()
		_ = ln.Close()

		if _, err := Dial(addr, WithTimeout(2*time.Second)); err == nil {
			t.Error("expected an error for a refused connection")
		}
	})

	t.Run("rejecting greeting", func(t *testing.T) {
		t.Parallel()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = ln.Close() })
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			fmt.Fprintf(conn, "421 too many connections\r\n")
			_ = conn.Close()
		}()

		_, err = Dial(ln.Addr().String(), WithTimeout(2*time.Second))
		if err == nil {
			t.Fatal("expected an error for a 421 greeting")
		}
	})
}
