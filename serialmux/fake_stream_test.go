//go:build linux

package serialmux

import (
	"fmt"

	"github.com/eapache/queue"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sys/unix"

	"github.com/serialmux/go-serialmux/logger"
	"github.com/serialmux/go-serialmux/reactor"
)

// readStep scripts one Read result of a fakeStream: either data delivered to
// the caller's buffer, or an error. A zero-value step is an end-of-stream.
type readStep struct {
	data []byte
	err  error
}

// writeStep scripts one Write result: accept up to max bytes, or fail with err.
type writeStep struct {
	max int
	err error
}

// fakeStream replays scripted read and write behavior so the pump algorithms
// can be exercised against exact would-block / partial / interrupted
// interleavings. Once a script runs out, the stream reports would-block, like
// an idle device.
type fakeStream struct {
	reads  []readStep
	writes []writeStep

	// received accumulates every byte accepted by Write.
	received []byte

	// onWrite, when set, runs after each Write call. Tests use it to flip
	// port state mid-loop.
	onWrite func()

	readCalls  int
	writeCalls int
}

func (s *fakeStream) Read(p []byte) (int, error) {
	s.readCalls++

	if len(s.reads) == 0 {
		return 0, unix.EAGAIN
	}

	step := s.reads[0]
	s.reads = s.reads[1:]

	if step.err != nil {
		return 0, step.err
	}

	return copy(p, step.data), nil
}

func (s *fakeStream) Write(p []byte) (int, error) {
	s.writeCalls++

	if s.onWrite != nil {
		defer s.onWrite()
	}

	if len(s.writes) == 0 {
		return 0, unix.EAGAIN
	}

	step := s.writes[0]
	s.writes = s.writes[1:]

	if step.err != nil {
		return 0, step.err
	}

	n := step.max
	if n > len(p) {
		n = len(p)
	}
	s.received = append(s.received, p[:n]...)

	return n, nil
}

func (s *fakeStream) Close() error { return nil }

// acceptAll returns a write step that accepts any suffix whole.
func acceptAll() writeStep { return writeStep{max: 1 << 20} }

// newTestMux builds a mux over fake streams, bypassing device open. One port
// is created per stream, labeled "p0", "p1", ...
func newTestMux(t testingT, opts []Option, streams ...*fakeStream) *Mux {
	t.Helper()

	cfg, err := newConfig(opts...)
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}
	cfg.logger = logger.NewSlog(logger.ErrorLevel, false)

	table := &PortTable{
		byLabel: xsync.NewMapOf[string, int](),
	}
	for i, s := range streams {
		label := fmt.Sprintf("p%d", i)
		table.byToken = append(table.byToken, &Port{
			token:     i,
			label:     label,
			fd:        -1,
			stream:    s,
			connected: true,
		})
		table.byLabel.Store(label, i)
	}

	r, err := reactor.New(len(streams))
	if err != nil {
		t.Fatalf("reactor.New: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	return &Mux{
		cfg:     cfg,
		logger:  cfg.logger,
		table:   table,
		reactor: r,
		pending: queue.New(),
	}
}

// testingT is the subset of *testing.T the fake helpers need.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Cleanup(func())
}
