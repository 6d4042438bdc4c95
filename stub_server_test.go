package roadftp

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubServer is a scripted in-process FTP server for one control
// connection. It records every command it receives so tests can assert
// on command ordering, and serves passive-mode data connections for
// LIST/RETR/STOR. Per-command replies can be overridden via replies.
type stubServer struct {
	ln net.Listener

	// replies maps a command verb to a canned reply that overrides the
	// built-in handling (e.g. "RNFR" -> "550 no such file").
	replies map[string]string

	// listing is the payload served for LIST
	listing []byte

	// dropOnQuit makes the server close the control connection on QUIT
	// without replying
	dropOnQuit bool

	// pending is the data listener opened by the last PASV
	pending net.Listener

	mu       sync.Mutex
	commands []string
	files    map[string][]byte
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start stub server: %v", err)
	}

	s := &stubServer{
		ln:      ln,
		replies: make(map[string]string),
		files:   make(map[string][]byte),
	}

	go s.serve()
	t.Cleanup(func() { ln.Close() })

	return s
}

func (s *stubServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// dial connects a session to the stub with test credentials.
func (s *stubServer) dial(t *testing.T, opts ...Option) *Session {
	t.Helper()

	opts = append(opts, WithPort(s.port()), WithTimeout(5*time.Second))
	sess, err := Connect("127.0.0.1", "stub", "secret", opts...)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })

	return sess
}

// gotCommands returns a copy of the raw command lines received so far.
func (s *stubServer) gotCommands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *stubServer) storedFile(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[name]
}

func (s *stubServer) setFile(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
}

func (s *stubServer) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	fmt.Fprintf(conn, "220 stub server ready\r\n")
	r := bufio.NewReader(conn)

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()

		verb, arg, _ := strings.Cut(line, " ")

		if reply, ok := s.replies[verb]; ok {
			fmt.Fprintf(conn, "%s\r\n", reply)
			continue
		}

		switch verb {
		case "USER":
			fmt.Fprintf(conn, "331 password required\r\n")
		case "PASS":
			fmt.Fprintf(conn, "230 logged in\r\n")
		case "TYPE":
			fmt.Fprintf(conn, "200 switching to binary mode\r\n")
		case "PWD":
			fmt.Fprintf(conn, "257 \"/home/stub\" is the current directory\r\n")
		case "CWD", "DELE", "RMD", "RNTO":
			fmt.Fprintf(conn, "250 ok\r\n")
		case "MKD":
			fmt.Fprintf(conn, "257 \"%s\" created\r\n", arg)
		case "RNFR":
			fmt.Fprintf(conn, "350 ready for RNTO\r\n")
		case "SIZE":
			s.mu.Lock()
			data, ok := s.files[arg]
			s.mu.Unlock()
			if ok {
				fmt.Fprintf(conn, "213 %d\r\n", len(data))
			} else {
				fmt.Fprintf(conn, "550 no such file\r\n")
			}
		case "PASV":
			dl, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				fmt.Fprintf(conn, "425 cannot open data listener\r\n")
				continue
			}
			s.pending = dl
			port := dl.Addr().(*net.TCPAddr).Port
			fmt.Fprintf(conn, "227 Entering Passive Mode (127,0,0,1,%d,%d).\r\n", port/256, port%256)
		case "LIST":
			fmt.Fprintf(conn, "150 here comes the directory listing\r\n")
			s.sendData(conn, s.listing)
		case "RETR":
			s.mu.Lock()
			data := s.files[arg]
			s.mu.Unlock()
			fmt.Fprintf(conn, "150 opening data connection\r\n")
			s.sendData(conn, data)
		case "STOR":
			fmt.Fprintf(conn, "150 ok to send data\r\n")
			s.recvData(conn, arg)
		case "QUIT":
			if s.dropOnQuit {
				return
			}
			fmt.Fprintf(conn, "221 goodbye\r\n")
		default:
			fmt.Fprintf(conn, "502 command not implemented\r\n")
		}
	}
}

// sendData accepts the queued data connection, writes the payload, and
// closes it before acknowledging on the control channel.
func (s *stubServer) sendData(conn net.Conn, data []byte) {
	dl := s.pending
	s.pending = nil
	if dl == nil {
		fmt.Fprintf(conn, "425 use PASV first\r\n")
		return
	}
	defer dl.Close()

	dc, err := dl.Accept()
	if err != nil {
		fmt.Fprintf(conn, "426 data connection failed\r\n")
		return
	}
	_, _ = dc.Write(data)
	dc.Close()

	fmt.Fprintf(conn, "226 transfer complete\r\n")
}

// recvData accepts the queued data connection and drains it until the
// client closes, storing the payload under name.
func (s *stubServer) recvData(conn net.Conn, name string) {
	dl := s.pending
	s.pending = nil
	if dl == nil {
		fmt.Fprintf(conn, "425 use PASV first\r\n")
		return
	}
	defer dl.Close()

	dc, err := dl.Accept()
	if err != nil {
		fmt.Fprintf(conn, "426 data connection failed\r\n")
		return
	}
	data, _ := io.ReadAll(dc)
	dc.Close()

	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()

	fmt.Fprintf(conn, "226 transfer complete\r\n")
}
