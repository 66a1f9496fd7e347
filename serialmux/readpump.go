//go:build linux

package serialmux

// ReadRecord is the accumulated bytes drained from one port during one drain
// cycle, emitted at most once per port per tick.
type ReadRecord struct {
	// Label identifies the source port.
	Label string
	// Data is the drained byte sequence. The mux does not interpret or frame
	// it; chunk boundaries carry no meaning.
	Data []byte
}

// drainPort empties all bytes currently pending on p and returns the completed
// read record, if any.
//
// The port lock is re-acquired for each read attempt rather than held across
// the whole drain, so a concurrent write request waits for at most one OS call.
//
// The drain terminates in one of two ways: a would-block result, meaning
// genuinely no more data is pending, which emits a record if any bytes were
// accumulated; or a zero-byte read, meaning end-of-stream, which closes the
// port permanently and emits nothing.
func (m *Mux) drainPort(p *Port) (ReadRecord, bool) {
	buf := make([]byte, m.cfg.readBufferLen)
	bytesRead := 0

	for {
		p.mu.Lock()

		if !p.connected {
			p.mu.Unlock()
			m.logger.Warn("serialmux: port connection has closed", "label", p.label)

			return ReadRecord{}, false
		}

		n, err := p.stream.Read(buf[bytesRead:])

		if err == nil && n == 0 {
			p.markClosed()
			p.mu.Unlock()

			m.metrics.incPortClosedCount()
			m.logger.Warn("serialmux: port reached end of stream", "label", p.label)
			m.unregisterPort(p)

			return ReadRecord{}, false
		}

		if err == nil {
			bytesRead += n
			// If the tail is now full there may be more data already buffered
			// by the OS; grow by the fixed increment and keep draining.
			if bytesRead == len(buf) {
				buf = append(buf, make([]byte, m.cfg.readBufferLen)...)
			}
			p.mu.Unlock()

			continue
		}

		p.mu.Unlock()

		switch {
		case isWouldBlock(err):
			// No more data pending; the drain cycle is complete.
			if bytesRead == 0 {
				return ReadRecord{}, false
			}

			m.metrics.incReadRecordCount()
			m.metrics.addBytesRead(uint64(bytesRead))

			return ReadRecord{Label: p.label, Data: buf[:bytesRead]}, true

		case isInterrupted(err):
			continue

		default:
			// Permissive policy: logged and retried, never escalated.
			m.metrics.incReadErrCount()
			m.logger.Error("serialmux: failed to read port", "label", p.label, "error", err)
			m.notifyReadError(p.label, err)
		}
	}
}

// unregisterPort removes a dead port from the reactor so it does not wake
// every subsequent poll with a hangup event.
func (m *Mux) unregisterPort(p *Port) {
	if err := m.reactor.Unregister(p.fd); err != nil {
		m.logger.Debug("serialmux: failed to unregister port from reactor",
			"label", p.label, "error", err)
	}
}

func (m *Mux) notifyReadError(label string, err error) {
	if m.cfg.onReadError != nil {
		m.cfg.onReadError(label, err)
	}
}
