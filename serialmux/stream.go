//go:build linux

package serialmux

import (
	"errors"

	"golang.org/x/sys/unix"
)

// stream is the raw byte stream behind a Port.
//
// The production implementation wraps a non-blocking file descriptor; tests
// substitute scripted implementations to exercise the pump error taxonomy
// (would-block, interrupted, end-of-stream, everything else) deterministically.
type stream interface {
	// Read reads into p. A return of (0, nil) with len(p) > 0 means end-of-stream.
	Read(p []byte) (int, error)
	// Write writes p and returns the number of bytes accepted by the device driver.
	Write(p []byte) (int, error)
	Close() error
}

// fdStream is a stream over a raw non-blocking file descriptor.
//
// It deliberately bypasses os.File: the Go runtime would park a pollable
// descriptor in its own netpoller and turn EAGAIN into a blocking wait, which
// is exactly the behavior the mux must not have.
type fdStream struct {
	fd int
}

func (s *fdStream) Read(p []byte) (int, error) {
	n, err := unix.Read(s.fd, p)
	if n < 0 {
		n = 0
	}

	return n, err
}

func (s *fdStream) Write(p []byte) (int, error) {
	n, err := unix.Write(s.fd, p)
	if n < 0 {
		n = 0
	}

	return n, err
}

func (s *fdStream) Close() error {
	return unix.Close(s.fd)
}

// isWouldBlock reports whether err means "no data or no capacity right now".
// Not an error condition; the caller retries at the next opportunity.
func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// isInterrupted reports whether err is a signal interruption, always retried
// immediately with no backoff.
func isInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}
