//go:build linux

package serialmux

import "errors"

var (
	// ErrUnknownLabel indicates that a label was never registered with the port table.
	// The offending request fails; no other port is affected.
	ErrUnknownLabel = errors.New("serialmux: unknown port label")

	// ErrDuplicateLabel indicates that two port settings resolve to the same label.
	ErrDuplicateLabel = errors.New("serialmux: duplicate port label")

	// ErrNoPorts indicates that Open was called with an empty settings list.
	ErrNoPorts = errors.New("serialmux: no port settings given")

	// ErrPortClosed indicates that the target port reached end-of-stream earlier
	// in the session. The closed state is terminal; the request is dropped.
	ErrPortClosed = errors.New("serialmux: port closed")

	// ErrMuxClosed indicates that the mux itself has been shut down.
	ErrMuxClosed = errors.New("serialmux: mux closed")

	// ErrWriteRetriesExhausted indicates that a write request exceeded the
	// configured attempt bound before the full payload was accepted.
	// Only possible when WithMaxWriteAttempts is set; the default is unbounded.
	ErrWriteRetriesExhausted = errors.New("serialmux: write retries exhausted")
)
