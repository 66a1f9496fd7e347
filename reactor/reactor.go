//go:build linux

package reactor

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned by operations on a reactor whose epoll instance has been closed.
var ErrClosed = errors.New("reactor: closed")

// Reactor owns one epoll instance and a pre-sized event buffer.
//
// It is not safe for concurrent use; the host loop that calls Poll must be the
// only goroutine touching the reactor.
type Reactor struct {
	epfd   int
	events []unix.EpollEvent
	ready  []int
	closed bool
}

// New creates a reactor able to report up to capacity ready tokens per poll.
func New(capacity int) (*Reactor, error) {
	if capacity < 1 {
		capacity = 1
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll create: %w", err)
	}

	return &Reactor{
		epfd:   epfd,
		events: make([]unix.EpollEvent, capacity),
		ready:  make([]int, 0, capacity),
	}, nil
}

// Register adds fd to the epoll watch list with readable interest and binds it
// to token. Each token must be registered at most once.
func (r *Reactor) Register(token int, fd int) error {
	if r.closed {
		return ErrClosed
	}

	// The token rides in the event payload; EpollWait hands it back untouched.
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(token),
	}

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("reactor: epoll ctl add (token=%d fd=%d): %w", token, fd, err)
	}

	return nil
}

// Unregister removes fd from the epoll watch list. Used when a stream reaches
// end-of-stream, so a dead device does not wake every subsequent poll.
func (r *Reactor) Unregister(fd int) error {
	if r.closed {
		return ErrClosed
	}

	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("reactor: epoll ctl del (fd=%d): %w", fd, err)
	}

	return nil
}

// Poll waits at most timeout for readable events and returns the tokens that
// became ready.
//
// The timeout is clamped to a whole, non-zero number of milliseconds, epoll's
// granularity; Poll therefore never blocks indefinitely and never spins with a
// zero wait. EINTR is retried immediately. Any other failure is unrecoverable
// for the caller, since readiness reporting cannot be trusted afterwards.
//
// The returned slice is reused by the next Poll call.
func (r *Reactor) Poll(timeout time.Duration) ([]int, error) {
	if r.closed {
		return nil, ErrClosed
	}

	ms := int(timeout / time.Millisecond)
	if ms < 1 {
		ms = 1
	}

	var n int
	for {
		var err error
		n, err = unix.EpollWait(r.epfd, r.events, ms)
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}

		return nil, fmt.Errorf("reactor: epoll wait: %w", err)
	}

	r.ready = r.ready[:0]
	for i := 0; i < n; i++ {
		r.ready = append(r.ready, int(r.events[i].Fd))
	}

	return r.ready, nil
}

// Close releases the epoll instance. Subsequent calls are no-ops.
func (r *Reactor) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	return unix.Close(r.epfd)
}
