package roadftp

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"
)

// pasvRegex matches the PASV payload: 227 Entering Passive Mode (h1,h2,h3,h4,p1,p2)
var pasvRegex = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

// parsePASV extracts the data connection address from a PASV response.
// Example: "227 Entering Passive Mode (192,168,1,5,200,10)."
// Returns: "192.168.1.5:51210" (200*256 + 10 = 51210)
func parsePASV(response string) (string, error) {
	matches := pasvRegex.FindStringSubmatch(response)
	if len(matches) != 7 {
		return "", &DataConnectionError{
			Reason:   "unparseable PASV response",
			Response: response,
		}
	}

	var h [4]int
	for i := 0; i < 4; i++ {
		val, err := strconv.Atoi(matches[i+1])
		if err != nil || val > 255 {
			return "", &DataConnectionError{
				Reason:   "invalid PASV address part " + matches[i+1],
				Response: response,
			}
		}
		h[i] = val
	}
	host := fmt.Sprintf("%d.%d.%d.%d", h[0], h[1], h[2], h[3])

	p1, err1 := strconv.Atoi(matches[5])
	p2, err2 := strconv.Atoi(matches[6])
	if err1 != nil || err2 != nil || p1 > 255 || p2 > 255 {
		return "", &DataConnectionError{
			Reason:   "invalid PASV port parts",
			Response: response,
		}
	}
	port := p1*256 + p2

	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// negotiatePassive runs the passive-mode handshake: send PASV, require a
// 227 reply, and derive the server's data address from it.
func (s *Session) negotiatePassive() (string, error) {
	resp, err := s.sendCommand("PASV")
	if err != nil {
		return "", err
	}

	if resp.Code != replyEnteringPassiveMode {
		return "", &DataConnectionError{
			Reason:   "PASV refused with code " + strconv.Itoa(resp.Code),
			Response: resp.Message,
		}
	}

	return parsePASV(resp.Message)
}

// openDataConn opens the transient data connection for one listing or
// transfer operation via the passive handshake. When TLS is configured,
// the data connection is upgraded and validated against the session's
// configured host, not the PASV-returned address: servers commonly
// advertise internal or NAT addresses that would never verify.
func (s *Session) openDataConn() (net.Conn, error) {
	if s.dataConn != nil {
		return nil, &DataConnectionError{Reason: "data connection already open"}
	}

	addr, err := s.negotiatePassive()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("opening data connection", "addr", addr)

	conn, err := net.DialTimeout("tcp", addr, s.config.Timeout)
	if err != nil {
		return nil, &TransportError{Op: "dial data connection", Err: err}
	}

	if s.config.Secure {
		conn, err = s.secureConn(conn)
		if err != nil {
			return nil, err
		}
	}

	dc := &deadlineConn{Conn: conn, timeout: s.config.Timeout}
	s.dataConn = dc
	return dc, nil
}

// abortDataConn tears down the data connection without touching the
// control channel. Used on error paths before the transfer command got
// far enough to owe us a completion reply.
func (s *Session) abortDataConn() {
	if s.dataConn != nil {
		s.dataConn.Close()
		s.dataConn = nil
	}
}

// finishDataConn closes the data connection and reads the transfer's
// final reply from the control channel, keeping the two channels in
// step. The reply code is not validated; transport and framing failures
// propagate.
func (s *Session) finishDataConn() error {
	if s.dataConn != nil {
		s.dataConn.Close()
		s.dataConn = nil
	}

	resp, err := s.readReply()
	if err != nil {
		return err
	}

	s.logger.Debug("transfer finished", "code", resp.Code)
	return nil
}

// deadlineConn wraps a net.Conn and applies the session timeout before
// every read and write.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (n int, err error) {
	if c.timeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(b)
}
