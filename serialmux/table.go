//go:build linux

package serialmux

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/serialmux/go-serialmux/logger"
)

// PortTable is the fixed collection of Ports, indexed by token and addressable
// by label.
//
// The table is fully built before the reactor starts polling and is never
// resized or re-registered afterwards, so lookups need no synchronization
// beyond the concurrent label map shared by the two pumps.
type PortTable struct {
	byToken []*Port
	byLabel *xsync.MapOf[string, int]
}

// openPortTable opens one device per setting, in order. Tokens are assigned
// densely from 0 in settings order.
//
// Failure to open any device aborts the whole initialization: a partially
// initialized table has no safe recovery, so every device opened so far is
// closed again and the error is returned.
func openPortTable(settings []PortSettings, log logger.Logger) (*PortTable, error) {
	if len(settings) == 0 {
		return nil, ErrNoPorts
	}

	t := &PortTable{
		byToken: make([]*Port, 0, len(settings)),
		byLabel: xsync.NewMapOf[string, int](),
	}

	for i := range settings {
		s := settings[i]
		label := s.label()

		if _, dup := t.byLabel.Load(label); dup {
			t.Close()

			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
		}

		fd, err := openDevice(&s)
		if err != nil {
			t.Close()

			return nil, fmt.Errorf("serialmux: failed to open port %q: %w", label, err)
		}

		port := &Port{
			token:     i,
			label:     label,
			fd:        fd,
			stream:    &fdStream{fd: fd},
			connected: true,
		}

		t.byToken = append(t.byToken, port)
		t.byLabel.Store(label, i)

		log.Debug("serialmux: opened port",
			"label", label,
			"path", s.Path,
			"token", i,
			"baudRate", s.BaudRate)
	}

	return t, nil
}

// Resolve returns the token assigned to label at registration time.
// It performs no I/O and fails with ErrUnknownLabel for unregistered labels.
func (t *PortTable) Resolve(label string) (int, error) {
	token, ok := t.byLabel.Load(label)
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	return token, nil
}

// Get returns the Port bound to token. Tokens come from Resolve or from the
// reactor and are always in range for a table that was built successfully.
func (t *PortTable) Get(token int) *Port {
	return t.byToken[token]
}

// Len returns the number of ports in the table.
func (t *PortTable) Len() int {
	return len(t.byToken)
}

// Labels returns the registered labels in token order.
func (t *PortTable) Labels() []string {
	labels := make([]string, len(t.byToken))
	for i, p := range t.byToken {
		labels[i] = p.label
	}

	return labels
}

// Close closes every underlying device stream.
func (t *PortTable) Close() {
	for _, p := range t.byToken {
		_ = p.close()
	}
}
