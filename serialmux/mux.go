//go:build linux

package serialmux

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/serialmux/go-serialmux/logger"
	"github.com/serialmux/go-serialmux/reactor"
)

// Mux multiplexes byte-stream I/O across a fixed set of serial ports without
// ever blocking the host's main loop.
//
// The mux owns no goroutines. The host drives it cooperatively: Poll runs the
// read pass once per host iteration, Flush runs the write pass for every
// pending request, Tick does both. Poll, Flush, and Tick must be called from a
// single goroutine; Send is safe for concurrent producers.
type Mux struct {
	cfg     *Config
	logger  logger.Logger
	table   *PortTable
	reactor *reactor.Reactor

	// pending holds queued write requests until the next write pass.
	pendingMu sync.Mutex
	pending   *queue.Queue

	closed  atomic.Bool
	metrics Metrics
}

// Open opens one device per setting, builds the port table, and registers every
// port with a freshly created readiness reactor.
//
// Initialization is all-or-nothing: a failure to open any device or to register
// any port aborts with an error and releases everything acquired so far.
func Open(settings []PortSettings, opts ...Option) (*Mux, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	table, err := openPortTable(settings, cfg.logger)
	if err != nil {
		return nil, err
	}

	r, err := reactor.New(table.Len())
	if err != nil {
		table.Close()

		return nil, fmt.Errorf("serialmux: failed to create reactor: %w", err)
	}

	for token := 0; token < table.Len(); token++ {
		port := table.Get(token)
		if err := r.Register(token, port.fd); err != nil {
			_ = r.Close()
			table.Close()

			return nil, fmt.Errorf("serialmux: failed to register port %q: %w", port.label, err)
		}
	}

	m := &Mux{
		cfg:     cfg,
		logger:  cfg.logger,
		table:   table,
		reactor: r,
		pending: queue.New(),
	}

	m.logger.Info("serialmux: opened", "ports", table.Len(), "labels", table.Labels())

	return m, nil
}

// Poll runs one read pass: a single bounded reactor poll followed by a full
// drain of every readable port. It returns the read records produced in this
// pass, zero records when no port had data.
//
// A reactor failure is unrecoverable; it is delivered to the fatal handler and
// returned. The mux must not be used afterwards.
func (m *Mux) Poll() ([]ReadRecord, error) {
	if m.closed.Load() {
		return nil, ErrMuxClosed
	}

	m.metrics.incPollCount()

	ready, err := m.reactor.Poll(m.cfg.pollTimeout)
	if err != nil {
		err = fmt.Errorf("serialmux: reactor poll failed: %w", err)
		m.notifyFatal(err)

		return nil, err
	}

	var records []ReadRecord
	for _, token := range ready {
		if rec, ok := m.drainPort(m.table.Get(token)); ok {
			records = append(records, rec)
		}
	}

	return records, nil
}

// Send queues a write request for the next write pass. The label must match a
// registered port; resolution performs no I/O. The payload is copied, so the
// caller may reuse its buffer immediately.
func (m *Mux) Send(label string, payload []byte) error {
	if m.closed.Load() {
		return ErrMuxClosed
	}

	token, err := m.table.Resolve(label)
	if err != nil {
		return err
	}

	if len(payload) == 0 {
		return nil
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)

	m.pendingMu.Lock()
	m.pending.Add(&writeRequest{token: token, label: label, payload: buf})
	m.pendingMu.Unlock()

	return nil
}

// Flush runs the write pass: every pending request is pushed to completion
// against its target port. A failed request is reported to the write error
// handler and does not stop the pass; the first failure is also returned.
func (m *Mux) Flush() error {
	if m.closed.Load() {
		return ErrMuxClosed
	}

	var firstErr error

	for {
		m.pendingMu.Lock()
		if m.pending.Length() == 0 {
			m.pendingMu.Unlock()

			break
		}
		req := m.pending.Remove().(*writeRequest)
		m.pendingMu.Unlock()

		if err := m.pushPayload(m.table.Get(req.token), req.payload); err != nil {
			m.notifyWriteError(req.label, err)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// Write pushes a single payload to the port registered under label, bypassing
// the pending queue. It returns when the full payload has been accepted, the
// port is closed, or the optional attempt bound is reached.
func (m *Mux) Write(label string, payload []byte) error {
	if m.closed.Load() {
		return ErrMuxClosed
	}

	token, err := m.table.Resolve(label)
	if err != nil {
		return err
	}

	return m.pushPayload(m.table.Get(token), payload)
}

// Tick runs one full host iteration: the read pass, then the write pass.
func (m *Mux) Tick() ([]ReadRecord, error) {
	records, err := m.Poll()
	if err != nil {
		return records, err
	}

	return records, m.Flush()
}

// Labels returns the registered port labels in token order.
func (m *Mux) Labels() []string {
	return m.table.Labels()
}

// Connected reports whether the port registered under label is still open.
func (m *Mux) Connected(label string) (bool, error) {
	token, err := m.table.Resolve(label)
	if err != nil {
		return false, err
	}

	return m.table.Get(token).Connected(), nil
}

// GetLogger returns the logger associated with the mux.
func (m *Mux) GetLogger() logger.Logger {
	return m.logger
}

// GetMetrics returns the metrics associated with the mux.
func (m *Mux) GetMetrics() *Metrics {
	return &m.metrics
}

// Close shuts the mux down: the reactor is released, every device stream is
// closed, and pending write requests are dropped. Subsequent calls are no-ops.
func (m *Mux) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.pendingMu.Lock()
	dropped := m.pending.Length()
	m.pending = queue.New()
	m.pendingMu.Unlock()

	if dropped > 0 {
		m.logger.Warn("serialmux: dropping pending write requests on close", "count", dropped)
	}

	err := m.reactor.Close()
	m.table.Close()

	m.logger.Info("serialmux: closed")

	return err
}

func (m *Mux) notifyFatal(err error) {
	m.logger.Error("serialmux: fatal reactor error", "error", err)

	if m.cfg.onFatal != nil {
		m.cfg.onFatal(err)
	}
}
