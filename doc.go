// Package roadftp implements an FTP client with support for both plain
// and TLS-secured (FTPS) sessions.
//
// # Overview
//
// A Session owns one control connection and, during a listing or
// transfer, one transient passive-mode data connection. Operations are
// strictly synchronous: every command's reply is fully consumed before
// the next command is issued, and a session must not be used from more
// than one goroutine at a time.
//
// # Basic Usage
//
// Connect, list a directory, and download a file:
//
//	sess, err := roadftp.Connect("ftp.example.com", "user", "pass")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	entries, err := sess.List("/pub")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range entries {
//	    fmt.Printf("%s (%d bytes)\n", e.Name, e.Size)
//	}
//
//	if _, err := sess.Download("/pub/data.csv", "data.csv"); err != nil {
//	    log.Fatal(err)
//	}
//
// Or let With handle the connect/close pairing:
//
//	err := roadftp.With("ftp.example.com", "user", "pass", func(s *roadftp.Session) error {
//	    _, err := s.Upload("report.pdf", "/incoming/report.pdf")
//	    return err
//	})
//
// # TLS
//
// WithSecure upgrades both the control and data connections to TLS, with
// the server's certificate validated against the configured host name,
// deliberately not against the address a PASV reply advertises, since
// servers behind NAT commonly return internal addresses:
//
//	sess, err := roadftp.Connect("ftp.example.com", "user", "pass",
//	    roadftp.WithSecure(),
//	)
//
// # Login semantics
//
// Connect sends USER and PASS but does not verify that authentication
// succeeded; reply codes are exposed to callers, who can issue any
// command and inspect the resulting *UnexpectedReplyError to detect an
// unauthenticated session.
//
// # Errors
//
// Failures are reported through typed errors: TransportError for socket
// failures and timeouts, SecurityError for TLS, ProtocolError for
// malformed response framing, UnexpectedReplyError when a server reply
// code differs from the one an operation requires, and
// DataConnectionError when the passive handshake fails. Nothing is
// retried automatically.
package roadftp
