package roadftp

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Response represents an FTP server response.
type Response struct {
	// Code is the three-digit reply code (e.g., 220, 550)
	Code int

	// Message is the full response text: every line of the response,
	// reply-code prefixes included, joined with newlines
	Message string
}

// Is2xx returns true if the reply code is in the 2xx range (success).
func (r *Response) Is2xx() bool {
	return r.Code >= 200 && r.Code < 300
}

// Is3xx returns true if the reply code is in the 3xx range (intermediate).
func (r *Response) Is3xx() bool {
	return r.Code >= 300 && r.Code < 400
}

// Is4xx returns true if the reply code is in the 4xx range (temporary failure).
func (r *Response) Is4xx() bool {
	return r.Code >= 400 && r.Code < 500
}

// Is5xx returns true if the reply code is in the 5xx range (permanent failure).
func (r *Response) Is5xx() bool {
	return r.Code >= 500 && r.Code < 600
}

// readResponse reads a complete FTP response from the reader.
// It handles both single-line and multi-line responses.
//
// Single-line format: "220 Welcome\r\n"
// Multi-line format:
//
//	"220-Welcome to FTP\r\n"
//	"220-This is line 2\r\n"
//	"220 Ready\r\n"
//
// The response is complete on the first line whose 4th character is a
// space; the reply code is parsed from the first three characters of
// that terminating line. A line too short to carry a code is a
// ProtocolError, never a truncated or zero code.
func readResponse(r *bufio.Reader) (*Response, error) {
	var lines []string

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")
		if len(line) < 4 {
			return nil, &ProtocolError{Line: line}
		}

		lines = append(lines, line)

		if line[3] == ' ' {
			break
		}
	}

	last := lines[len(lines)-1]
	code, err := strconv.Atoi(last[0:3])
	if err != nil {
		return nil, &ProtocolError{Line: last}
	}

	return &Response{
		Code:    code,
		Message: strings.Join(lines, "\n"),
	}, nil
}

// sendCommand writes an FTP command to the control connection and reads
// its response. Commands are CRLF-terminated; arguments are not escaped,
// so callers must not pass strings containing CR or LF.
func (s *Session) sendCommand(command string, args ...string) (*Response, error) {
	cmd := command
	if len(args) > 0 {
		cmd = fmt.Sprintf("%s %s", command, strings.Join(args, " "))
	}

	logName := cmd
	if command == "PASS" {
		logName = "PASS ******"
	}

	// Serialize commands: the control channel is strictly
	// request/response, no pipelining.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &TransportError{Op: "send " + command, Err: ErrSessionClosed}
	}
	if s.conn == nil {
		return nil, &TransportError{Op: "send " + command, Err: ErrNotConnected}
	}

	s.logger.Debug("ftp command", "cmd", logName)

	if s.config.Timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.config.Timeout)); err != nil {
			return nil, &TransportError{Op: "send " + command, Err: err}
		}
	}

	if _, err := fmt.Fprintf(s.conn, "%s\r\n", cmd); err != nil {
		return nil, &TransportError{Op: "send " + command, Err: err}
	}

	return s.readReply()
}

// readReply reads one response from the control connection, applying the
// session timeout. Framing failures surface as ProtocolError; everything
// else is a TransportError.
func (s *Session) readReply() (*Response, error) {
	if s.config.Timeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.config.Timeout)); err != nil {
			return nil, &TransportError{Op: "read response", Err: err}
		}
	}

	resp, err := readResponse(s.reader)
	if err != nil {
		var pe *ProtocolError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &TransportError{Op: "read response", Err: err}
	}

	s.logger.Debug("ftp response", "code", resp.Code, "message", resp.Message)

	return resp, nil
}

// expectCode sends a command and verifies the reply code matches the
// expected code. A mismatch is an UnexpectedReplyError; the session
// remains usable.
func (s *Session) expectCode(expected int, command string, args ...string) (*Response, error) {
	resp, err := s.sendCommand(command, args...)
	if err != nil {
		return nil, err
	}

	if resp.Code != expected {
		return resp, &UnexpectedReplyError{
			Command: command,
			Want:    expected,
			Code:    resp.Code,
			Message: resp.Message,
		}
	}

	return resp, nil
}
