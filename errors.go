package roadftp

import (
	"errors"
	"fmt"
	"net"
)

// ErrSessionClosed is reported (wrapped in a TransportError) when an
// operation is attempted on a session that has been closed.
var ErrSessionClosed = errors.New("session closed")

// ErrNotConnected is reported (wrapped in a TransportError) when an
// operation is attempted before Connect has succeeded.
var ErrNotConnected = errors.New("not connected")

// TransportError represents a socket-level failure: dialing, reading,
// writing, or a timeout. Transport errors are fatal to the in-flight
// operation and are never retried automatically.
type TransportError struct {
	// Op describes the operation that failed (e.g., "dial", "read response")
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("ftp: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the underlying error was a timeout.
func (e *TransportError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// SecurityError represents a TLS handshake or server identity validation
// failure on either the control or the data connection.
type SecurityError struct {
	// Host is the hostname the server's identity was validated against
	Host string

	// Err is the underlying TLS error
	Err error
}

// Error implements the error interface.
func (e *SecurityError) Error() string {
	return fmt.Sprintf("ftp: TLS handshake with %q failed: %v", e.Host, e.Err)
}

// Unwrap returns the underlying error.
func (e *SecurityError) Unwrap() error { return e.Err }

// ProtocolError represents malformed response framing on the control
// channel, such as a response line too short to carry a reply code. It is
// never silently converted into a default or zero code.
type ProtocolError struct {
	// Line is the offending response line
	Line string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ftp: malformed response line %q", e.Line)
}

// UnexpectedReplyError is returned when the server replied with a code
// other than the one required by the calling operation. It carries the
// full command/reply context for discerning callers. The session remains
// usable after an UnexpectedReplyError.
type UnexpectedReplyError struct {
	// Command is the FTP command that was sent (e.g., "RNFR")
	Command string

	// Want is the reply code the operation required
	Want int

	// Code is the reply code the server actually returned
	Code int

	// Message is the full response text from the server
	Message string
}

// Error implements the error interface.
func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("ftp: %s expected %d, got %d: %s", e.Command, e.Want, e.Code, e.Message)
}

// Is4xx returns true if the reply code is in the 4xx range (temporary failure).
func (e *UnexpectedReplyError) Is4xx() bool {
	return e.Code >= 400 && e.Code < 500
}

// Is5xx returns true if the reply code is in the 5xx range (permanent failure).
func (e *UnexpectedReplyError) Is5xx() bool {
	return e.Code >= 500 && e.Code < 600
}

// IsTemporary returns true if the failure is temporary (4xx).
// This can be used to implement retry logic in the caller.
func (e *UnexpectedReplyError) IsTemporary() bool { return e.Is4xx() }

// IsPermanent returns true if the failure is permanent (5xx).
func (e *UnexpectedReplyError) IsPermanent() bool { return e.Is5xx() }

// DataConnectionError is returned when the passive-mode handshake fails:
// the PASV reply was not 227, or its host/port payload could not be parsed.
type DataConnectionError struct {
	// Reason describes what went wrong
	Reason string

	// Response is the server's PASV response text, if any
	Response string
}

// Error implements the error interface.
func (e *DataConnectionError) Error() string {
	if e.Response == "" {
		return fmt.Sprintf("ftp: data connection: %s", e.Reason)
	}
	return fmt.Sprintf("ftp: data connection: %s: %s", e.Reason, e.Response)
}
