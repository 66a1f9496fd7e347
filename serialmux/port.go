//go:build linux

package serialmux

import "sync"

// Port is one opened, configured serial device stream plus its liveness state.
//
// The mutex guards the stream and the connected flag. Both pumps acquire it per
// I/O attempt, never across a whole drain or a whole payload, so contention
// between the tick-driven read path and the request-driven write path is
// bounded to a single OS call.
type Port struct {
	mu sync.Mutex

	// token is the dense, 0-based identifier assigned at registration.
	// It doubles as the readiness-poll identifier.
	token int
	// label is the user-facing name; unique within the table.
	label string
	// fd is the device descriptor, kept for poller registration.
	fd int
	// stream is the byte stream over fd.
	stream stream
	// connected transitions once, irreversibly, to false on end-of-stream.
	connected bool
}

// Token returns the port's stable integer identifier.
func (p *Port) Token() int { return p.token }

// Label returns the port's label.
func (p *Port) Label() string { return p.label }

// Connected reports whether the port is still open. Once false it never
// becomes true again; there is no re-open.
func (p *Port) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.connected
}

// markClosed transitions the port to its terminal closed state.
// The caller must hold p.mu.
func (p *Port) markClosed() {
	p.connected = false
}

func (p *Port) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.connected = false

	return p.stream.Close()
}
