package roadftp

import (
	"fmt"
	"io"
	"os"
)

// Retrieve downloads the remote file into w and returns the number of
// bytes received.
//
// The transfer choreography is: open the passive-mode data connection,
// switch to binary mode (TYPE I), send RETR, stream from the data
// connection until the server closes it, then close the data connection
// and read the final control reply. The TYPE and RETR replies are not
// hard-validated; servers that refuse the transfer close the data
// connection immediately and the final reply carries the verdict.
func (s *Session) Retrieve(remotePath string, w io.Writer) (int64, error) {
	dc, err := s.openDataConn()
	if err != nil {
		return 0, err
	}

	if _, err := s.sendCommand("TYPE", "I"); err != nil {
		s.abortDataConn()
		return 0, err
	}

	if _, err := s.sendCommand("RETR", remotePath); err != nil {
		s.abortDataConn()
		return 0, err
	}

	n, copyErr := io.Copy(w, dc)

	// Always close the data connection and consume the final reply,
	// even after a failed copy.
	finishErr := s.finishDataConn()

	if copyErr != nil {
		return n, fmt.Errorf("ftp: download failed: %w", copyErr)
	}
	if finishErr != nil {
		return n, finishErr
	}

	return n, nil
}

// Store uploads data from r to the remote path and returns the number of
// bytes sent. The choreography mirrors Retrieve with STOR in place of
// RETR: the data connection is closed when r is exhausted, signaling
// end-of-file to the server, and the final control reply is read.
func (s *Session) Store(remotePath string, r io.Reader) (int64, error) {
	dc, err := s.openDataConn()
	if err != nil {
		return 0, err
	}

	if _, err := s.sendCommand("TYPE", "I"); err != nil {
		s.abortDataConn()
		return 0, err
	}

	if _, err := s.sendCommand("STOR", remotePath); err != nil {
		s.abortDataConn()
		return 0, err
	}

	n, copyErr := io.Copy(dc, r)

	finishErr := s.finishDataConn()

	if copyErr != nil {
		return n, fmt.Errorf("ftp: upload failed: %w", copyErr)
	}
	if finishErr != nil {
		return n, finishErr
	}

	return n, nil
}

// Download retrieves the remote file into a local file, creating or
// truncating it, and returns the number of bytes written. The local file
// handle is released on every exit path, including transfer errors.
//
// Example:
//
//	n, err := sess.Download("/pub/data.csv", "data.csv")
func (s *Session) Download(remotePath, localPath string) (int64, error) {
	f, err := os.Create(localPath)
	if err != nil {
		return 0, fmt.Errorf("ftp: failed to create local file: %w", err)
	}
	defer f.Close()

	return s.Retrieve(remotePath, f)
}

// Upload stores a local file at the remote path and returns the number
// of bytes sent. The local file handle is released on every exit path.
//
// Example:
//
//	n, err := sess.Upload("report.pdf", "/incoming/report.pdf")
func (s *Session) Upload(localPath, remotePath string) (int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("ftp: failed to open local file: %w", err)
	}
	defer f.Close()

	return s.Store(remotePath, f)
}
