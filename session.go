package roadftp

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"
)

// Mode selects how data connections are established.
type Mode int

const (
	// ModePassive asks the server to listen for the data connection
	// (PASV). This is the only supported mode.
	ModePassive Mode = iota

	// ModeActive would have the client listen (PORT). It is recognized
	// so configurations can name it, but Connect rejects it.
	ModeActive
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePassive:
		return "passive"
	case ModeActive:
		return "active"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config describes a session. It is copied at construction and fully
// determines connection behavior; changing it afterwards has no effect.
type Config struct {
	// Host is the server hostname or IP address. When Secure is set, the
	// server's certificate is validated against this name for both the
	// control and data connections.
	Host string

	// Port is the control connection port. Defaults to 21.
	Port int

	// User name. Defaults to "anonymous".
	User string

	// User password. Defaults to "anonymous@".
	Password string

	// Timeout applies per socket operation: connect, read, and write,
	// on both the control and data connections. Defaults to 30 seconds.
	Timeout time.Duration

	// Mode selects the data connection mode. Defaults to ModePassive.
	Mode Mode

	// Secure upgrades the control and data connections to TLS.
	Secure bool

	// TLSConfig overrides the TLS configuration used when Secure is set.
	// If nil, a configuration validating the server against Host is used.
	TLSConfig *tls.Config

	// Logger receives debug events for every command and response sent
	// over the control channel. PASS arguments are redacted. If nil,
	// logging is a no-op.
	Logger *slog.Logger
}

// Session is an FTP client session: one control connection, plus a
// transient data connection during a listing or transfer.
//
// A session is not safe for concurrent use. The control channel is
// strictly request/response: each command's reply must be fully consumed
// before the next command is issued, and interleaved operations would
// violate that ordering.
type Session struct {
	config Config
	logger *slog.Logger

	// conn is the control connection
	conn net.Conn

	// reader is a buffered reader over the control connection
	reader *bufio.Reader

	// dataConn is the live data connection, if any. At most one data
	// connection exists at a time; it is opened immediately before a
	// transfer command and closed as soon as the transfer completes.
	dataConn net.Conn

	// mu serializes control-channel commands
	mu sync.Mutex

	closed bool
}

// NewSession returns an unconnected session for the given configuration,
// applying defaults for unset fields. It performs no I/O; call Connect
// to open the control connection.
func NewSession(cfg Config) *Session {
	if cfg.Port <= 0 {
		cfg.Port = 21
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.User == "" {
		cfg.User = "anonymous"
	}
	if cfg.Password == "" {
		cfg.Password = "anonymous@"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1 << 30)}))
	}

	return &Session{
		config: cfg,
		logger: logger,
	}
}

// Connect opens the control connection and logs in.
//
// The sequence is: dial, optionally upgrade to TLS, read the server
// greeting, then send USER and PASS. The greeting and login replies are
// read but deliberately not validated: some servers accept USER with a
// 230 and skip the password entirely, and the original client exposes
// reply codes to the caller instead of enforcing a successful login.
// Callers that need to confirm authentication should issue a command
// and inspect the reply.
func (s *Session) Connect() error {
	if s.closed {
		return &TransportError{Op: "connect", Err: ErrSessionClosed}
	}
	if s.conn != nil {
		return &TransportError{Op: "connect", Err: fmt.Errorf("already connected")}
	}
	if s.config.Mode != ModePassive {
		return fmt.Errorf("ftp: %s mode is not supported", s.config.Mode)
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.logger.Debug("connecting to ftp server", "addr", addr, "secure", s.config.Secure)

	conn, err := net.DialTimeout("tcp", addr, s.config.Timeout)
	if err != nil {
		return &TransportError{Op: "dial", Err: err}
	}

	if s.config.Secure {
		conn, err = s.secureConn(conn)
		if err != nil {
			return err
		}
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)

	// Greeting. The code is not validated beyond being parseable.
	greeting, err := s.readReply()
	if err != nil {
		s.conn.Close()
		s.conn = nil
		return err
	}
	s.logger.Debug("ftp greeting", "code", greeting.Code)

	if _, err := s.sendCommand("USER", s.config.User); err != nil {
		s.conn.Close()
		s.conn = nil
		return err
	}
	if _, err := s.sendCommand("PASS", s.config.Password); err != nil {
		s.conn.Close()
		s.conn = nil
		return err
	}

	return nil
}

// secureConn upgrades conn to TLS, validating the server's identity
// against the configured host. Used for the control and data connections
// alike.
func (s *Session) secureConn(conn net.Conn) (net.Conn, error) {
	tlsConn := tls.Client(conn, s.tlsConfig())

	if s.config.Timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.config.Timeout)); err != nil {
			conn.Close()
			return nil, &TransportError{Op: "tls deadline", Err: err}
		}
	}

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, &SecurityError{Host: s.config.Host, Err: err}
	}

	if s.config.Timeout > 0 {
		// Clear the handshake deadline; per-operation deadlines take over.
		if err := conn.SetDeadline(time.Time{}); err != nil {
			tlsConn.Close()
			return nil, &TransportError{Op: "tls deadline", Err: err}
		}
	}

	return tlsConn, nil
}

func (s *Session) tlsConfig() *tls.Config {
	if s.config.TLSConfig != nil {
		return s.config.TLSConfig
	}
	return &tls.Config{ServerName: s.config.Host}
}

// Close ends the session. It sends QUIT as a courtesy, swallowing any
// failure from it: orderly shutdown proceeds regardless of the server's
// final acknowledgment. The control connection is then closed
// unconditionally. A second Close is a no-op; operations attempted after
// Close fail with a TransportError wrapping ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	if s.conn != nil {
		// Best effort.
		_, _ = s.sendCommand("QUIT")
	}

	s.closed = true

	if s.dataConn != nil {
		s.dataConn.Close()
		s.dataConn = nil
	}

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

// Connect constructs a session for host with the given credentials and
// options, and connects it in one step.
//
// Example:
//
//	sess, err := roadftp.Connect("ftp.example.com", "user", "pass",
//	    roadftp.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
func Connect(host, user, password string, opts ...Option) (*Session, error) {
	cfg := Config{
		Host:     host,
		User:     user,
		Password: password,
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("ftp: invalid option: %w", err)
		}
	}

	s := NewSession(cfg)
	if err := s.Connect(); err != nil {
		return nil, err
	}
	return s, nil
}

// With connects a session, runs fn with it, and always closes the
// session afterwards, even when fn fails. It returns fn's error, or the
// connect error if the session could not be established.
//
// Example:
//
//	err := roadftp.With("ftp.example.com", "user", "pass", func(s *roadftp.Session) error {
//	    _, err := s.Download("remote.bin", "local.bin")
//	    return err
//	})
func With(host, user, password string, fn func(*Session) error, opts ...Option) error {
	s, err := Connect(host, user, password, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(s)
}
