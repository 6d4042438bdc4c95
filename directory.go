package roadftp

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// Entry represents a file or directory from a LIST command.
type Entry struct {
	// Name is the entry name. For lines the heuristic cannot split, this
	// is the raw line verbatim.
	Name string

	// Size in bytes, 0 when the size field was absent or non-numeric
	Size int64

	// Modified is the modification time. The default listing heuristic
	// does not populate it; it stays zero.
	Modified time.Time

	// IsDir reports whether the entry is a directory
	IsDir bool

	// Permissions is the raw permissions string (e.g., "-rw-r--r--")
	Permissions string

	// Raw is the unparsed listing line
	Raw string
}

// List returns the entries of the given directory. An empty path lists
// the current directory.
//
// Listing bytes are read from a passive-mode data connection until the
// server closes it, then decoded as UTF-8 with undecodable bytes
// replaced. Each non-empty line becomes one Entry via a best-effort
// Unix-style heuristic (see parseListLine); the heuristic is a
// documented limitation, not a protocol contract, and unrecognized
// dialects degrade to raw-name entries rather than failing.
func (s *Session) List(path string) ([]Entry, error) {
	dc, err := s.openDataConn()
	if err != nil {
		return nil, err
	}

	if path == "" {
		_, err = s.sendCommand("LIST")
	} else {
		_, err = s.sendCommand("LIST", path)
	}
	if err != nil {
		s.abortDataConn()
		return nil, err
	}

	data, readErr := io.ReadAll(dc)

	// Close the data connection and read the final control reply even
	// when the drain failed, so the control channel stays in step.
	finishErr := s.finishDataConn()

	if readErr != nil {
		return nil, &TransportError{Op: "read listing", Err: readErr}
	}
	if finishErr != nil {
		return nil, finishErr
	}

	text := strings.ToValidUTF8(string(data), "�")

	var entries []Entry
	for text != "" {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line = text[:i+1]
			text = text[i+1:]
		} else {
			text = ""
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		entries = append(entries, parseListLine(line))
	}

	return entries, nil
}

// parseListLine applies the Unix-style listing heuristic: split the line
// on runs of whitespace into at most 9 fields. With 9 fields, field 0 is
// the permissions string (directory flag = leading 'd'), field 4 the
// size, and field 8 the name, which may itself contain spaces since the
// split stops there. With fewer fields the whole line is treated as an
// opaque name. This matches common Unix LIST output and is not
// guaranteed for all server dialects.
func parseListLine(line string) Entry {
	fields := splitListFields(line, 9)
	if len(fields) < 9 {
		return Entry{Name: line, Raw: line}
	}

	entry := Entry{
		Name:        fields[8],
		IsDir:       strings.HasPrefix(fields[0], "d"),
		Permissions: fields[0],
		Raw:         line,
	}

	if isAllDigits(fields[4]) {
		entry.Size, _ = strconv.ParseInt(fields[4], 10, 64)
	}

	return entry
}

// splitListFields splits s on runs of spaces and tabs into at most max
// fields; the last field keeps its internal whitespace.
func splitListFields(s string, max int) []string {
	var fields []string
	i := 0

	for i < len(s) && len(fields) < max-1 {
		for i < len(s) && isListSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			return fields
		}
		start := i
		for i < len(s) && !isListSpace(s[i]) {
			i++
		}
		fields = append(fields, s[start:i])
	}

	for i < len(s) && isListSpace(s[i]) {
		i++
	}
	if i < len(s) {
		fields = append(fields, s[i:])
	}

	return fields
}

func isListSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Pwd returns the current working directory: the first double-quoted
// substring of the PWD reply, or the empty string if the reply carries
// no quoted path. A missing path is not an error.
func (s *Session) Pwd() (string, error) {
	resp, err := s.sendCommand("PWD")
	if err != nil {
		return "", err
	}

	start := strings.Index(resp.Message, `"`)
	if start == -1 {
		return "", nil
	}
	end := strings.Index(resp.Message[start+1:], `"`)
	if end == -1 {
		return "", nil
	}

	return resp.Message[start+1 : start+1+end], nil
}

// Cwd changes the current working directory.
func (s *Session) Cwd(path string) error {
	_, err := s.expectCode(replyFileActionOkay, "CWD", path)
	return err
}

// Mkd creates a directory.
func (s *Session) Mkd(path string) error {
	_, err := s.expectCode(replyDirCreated, "MKD", path)
	return err
}

// Rmd removes a directory.
func (s *Session) Rmd(path string) error {
	_, err := s.expectCode(replyFileActionOkay, "RMD", path)
	return err
}

// Delete removes a file.
func (s *Session) Delete(path string) error {
	_, err := s.expectCode(replyFileActionOkay, "DELE", path)
	return err
}

// Rename renames a file or directory. It sends RNFR (expecting 350)
// followed by RNTO (expecting 250); if the RNFR step fails, RNTO is
// never sent.
func (s *Session) Rename(from, to string) error {
	if _, err := s.expectCode(replyFileActionPending, "RNFR", from); err != nil {
		return err
	}

	_, err := s.expectCode(replyFileActionOkay, "RNTO", to)
	return err
}

// Size returns the size of a file in bytes. Servers that do not support
// SIZE, or reply with anything other than 213, yield 0 with no error;
// only transport-level failures are reported.
func (s *Session) Size(path string) (int64, error) {
	resp, err := s.sendCommand("SIZE", path)
	if err != nil {
		return 0, err
	}

	if resp.Code != replyFileStatus {
		return 0, nil
	}

	fields := strings.Fields(resp.Message)
	if len(fields) == 0 {
		return 0, nil
	}

	size, parseErr := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if parseErr != nil {
		return 0, nil
	}

	return size, nil
}
