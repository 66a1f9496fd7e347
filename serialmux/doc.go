//go:build linux

// Package serialmux provides non-blocking, multi-port serial I/O driven by a
// cooperative host tick.
//
// A Mux owns a fixed table of opened serial ports and one readiness reactor.
// Ports are addressed by a user-chosen label (defaulting to the device path)
// and identified internally by a dense integer token that doubles as the
// reactor's poll identifier.
//
// On each host tick the read pass polls the reactor with a short, bounded
// timeout and drains every readable port until the driver reports would-block,
// emitting at most one ReadRecord per port per tick. The write pass pushes each
// pending request to completion, retrying through would-block back-pressure and
// signal interruptions, and keeping the accepted prefix across partial writes.
//
// The mux moves raw bytes: it implies no framing, no message delimiting, and no
// reconnect policy. A port that reaches end-of-stream is closed permanently.
//
// Error taxonomy, in increasing severity: would-block and interruptions are
// transient and retried silently; end-of-stream is fatal to its port only;
// an unknown label is fatal to the offending request only; a failed device
// open, port registration, or reactor poll is fatal to initialization or to
// the mux as a whole.
//
// Linux only; ports are configured through termios and multiplexed with epoll.
package serialmux
