//go:build linux

package serialmux

import "fmt"

// writeRequest is an outbound payload targeting one port. It is owned by the
// write pump until fully transmitted or the port becomes closed.
type writeRequest struct {
	token   int
	label   string
	payload []byte
}

// pushPayload writes payload to p, retrying on transient conditions until the
// full payload has been accepted, the port becomes closed mid-loop, or the
// optional attempt bound is reached.
//
// The port lock is re-acquired per write attempt, so the tick-driven read path
// is never starved for longer than a single OS call. Would-block results are
// busy-retried with no yield: back-pressure from the device driver is expected
// to clear within a few character times at any realistic baud rate.
func (m *Mux) pushPayload(p *Port, payload []byte) error {
	written := 0
	attempts := 0

	for written < len(payload) {
		if limit := m.cfg.maxWriteAttempts; limit > 0 && attempts >= limit {
			m.metrics.incWriteErrCount()

			return fmt.Errorf("%w: port %q, %d of %d bytes accepted after %d attempts",
				ErrWriteRetriesExhausted, p.label, written, len(payload), attempts)
		}
		attempts++

		p.mu.Lock()

		// Another actor may mark the port closed mid-loop; the request is
		// then abandoned.
		if !p.connected {
			p.mu.Unlock()
			m.logger.Warn("serialmux: dropping write to closed port",
				"label", p.label,
				"unsent", len(payload)-written)

			return fmt.Errorf("%w: %q", ErrPortClosed, p.label)
		}

		n, err := p.stream.Write(payload[written:])
		p.mu.Unlock()

		if err == nil {
			remaining := len(payload) - written
			if n < remaining {
				// A single call is expected to accept the whole suffix; a
				// short count is a partial-write anomaly. Log it, keep the
				// accepted prefix, and send the rest on the next iteration.
				m.metrics.incPartialWriteCount()
				m.logger.Warn("serialmux: partial write",
					"label", p.label,
					"accepted", n,
					"requested", remaining)
			}

			m.metrics.addBytesWritten(uint64(n))
			written += n

			continue
		}

		switch {
		case isWouldBlock(err):
			// No capacity right now; retry immediately until writable.
			m.metrics.incWriteRetryCount()

		case isInterrupted(err):
			// Retry immediately, no backoff.

		default:
			// Permissive policy: logged and retried without progress.
			m.metrics.incWriteErrCount()
			m.logger.Error("serialmux: failed to write port", "label", p.label, "error", err)
			m.notifyWriteError(p.label, err)
		}
	}

	m.metrics.incWriteRequestCount()

	return nil
}

func (m *Mux) notifyWriteError(label string, err error) {
	if m.cfg.onWriteError != nil {
		m.cfg.onWriteError(label, err)
	}
}
