//go:build linux

package serialmux

import (
	"os"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialmux/go-serialmux/logger"
)

// openPtyPair returns a pty pair; the slave side acts as the serial device and
// the returned master is the simulated remote end.
func openPtyPair(t *testing.T) (master *os.File, slavePath string) {
	t.Helper()

	m, s, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { m.Close(); s.Close() })

	return m, s.Name()
}

func TestOpenPortTable_AssignsDenseTokens(t *testing.T) {
	_, pathA := openPtyPair(t)
	_, pathB := openPtyPair(t)

	a := DefaultPortSettings(pathA)
	a.Label = "a"
	b := DefaultPortSettings(pathB)
	b.Label = "b"

	table, err := openPortTable([]PortSettings{a, b}, logger.GetLogger())
	require.NoError(t, err)
	t.Cleanup(table.Close)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"a", "b"}, table.Labels())

	tokenA, err := table.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, 0, tokenA)

	tokenB, err := table.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, 1, tokenB)

	assert.Equal(t, "a", table.Get(0).Label())
	assert.Equal(t, 0, table.Get(0).Token())
	assert.True(t, table.Get(0).Connected())
}

func TestOpenPortTable_LabelDefaultsToPath(t *testing.T) {
	_, path := openPtyPair(t)

	table, err := openPortTable([]PortSettings{DefaultPortSettings(path)}, logger.GetLogger())
	require.NoError(t, err)
	t.Cleanup(table.Close)

	token, err := table.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 0, token)
}

func TestPortTable_ResolveUnknownLabel(t *testing.T) {
	_, path := openPtyPair(t)

	table, err := openPortTable([]PortSettings{DefaultPortSettings(path)}, logger.GetLogger())
	require.NoError(t, err)
	t.Cleanup(table.Close)

	_, err = table.Resolve("nope")
	require.ErrorIs(t, err, ErrUnknownLabel)
}

func TestOpenPortTable_EmptySettings(t *testing.T) {
	_, err := openPortTable(nil, logger.GetLogger())
	require.ErrorIs(t, err, ErrNoPorts)
}

func TestOpenPortTable_DuplicateLabel(t *testing.T) {
	_, pathA := openPtyPair(t)
	_, pathB := openPtyPair(t)

	a := DefaultPortSettings(pathA)
	a.Label = "dup"
	b := DefaultPortSettings(pathB)
	b.Label = "dup"

	_, err := openPortTable([]PortSettings{a, b}, logger.GetLogger())
	require.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestOpenPortTable_OpenFailureAbortsAll(t *testing.T) {
	_, path := openPtyPair(t)

	good := DefaultPortSettings(path)
	bad := DefaultPortSettings("/dev/serialmux-does-not-exist")

	_, err := openPortTable([]PortSettings{good, bad}, logger.GetLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open port")
}

func TestOpenDevice_InvalidSettings(t *testing.T) {
	s := DefaultPortSettings("/dev/null")
	s.BaudRate = 12345

	_, err := openDevice(&s)
	require.Error(t, err)
}
