//go:build linux

// Package reactor wraps a single epoll instance that multiplexes readable-readiness
// across every registered device stream.
//
// Each stream is identified by a small integer token chosen by the caller. Tokens are
// carried in the epoll event payload, so a poll returns ready tokens directly and the
// caller never needs to map file descriptors back to its own bookkeeping.
//
// The reactor registers readable interest only. Writability is discovered by attempting
// the write and interpreting EAGAIN, which avoids EPOLLOUT churn for streams that are
// writable almost all of the time.
//
// Linux only.
package reactor
