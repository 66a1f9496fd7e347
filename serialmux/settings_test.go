//go:build linux

package serialmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPortSettings(t *testing.T) {
	s := DefaultPortSettings("/dev/ttyUSB0")

	assert.Equal(t, "/dev/ttyUSB0", s.Path)
	assert.Equal(t, 115200, s.BaudRate)
	assert.Equal(t, DataBits8, s.DataBits)
	assert.Equal(t, ParityNone, s.Parity)
	assert.Equal(t, StopBits1, s.StopBits)
	assert.Equal(t, FlowControlNone, s.FlowControl)
	require.NoError(t, s.Validate())
}

func TestPortSettings_LabelDefaultsToPath(t *testing.T) {
	s := DefaultPortSettings("/dev/ttyUSB0")
	assert.Equal(t, "/dev/ttyUSB0", s.label())

	s.Label = "gps"
	assert.Equal(t, "gps", s.label())
}

func TestPortSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PortSettings)
		wantErr string
	}{
		{
			name:    "empty path",
			mutate:  func(s *PortSettings) { s.Path = "" },
			wantErr: "device path",
		},
		{
			name:    "unsupported baud",
			mutate:  func(s *PortSettings) { s.BaudRate = 12345 },
			wantErr: "baud rate",
		},
		{
			name:    "invalid data bits",
			mutate:  func(s *PortSettings) { s.DataBits = 9 },
			wantErr: "data bits",
		},
		{
			name:    "invalid parity",
			mutate:  func(s *PortSettings) { s.Parity = 42 },
			wantErr: "parity",
		},
		{
			name:    "invalid stop bits",
			mutate:  func(s *PortSettings) { s.StopBits = 3 },
			wantErr: "stop bits",
		},
		{
			name:    "invalid flow control",
			mutate:  func(s *PortSettings) { s.FlowControl = 7 },
			wantErr: "flow control",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultPortSettings("/dev/ttyUSB0")
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "8", DataBits8.String())
	assert.Equal(t, "none", ParityNone.String())
	assert.Equal(t, "odd", ParityOdd.String())
	assert.Equal(t, "even", ParityEven.String())
	assert.Equal(t, "2", StopBits2.String())
	assert.Equal(t, "software", FlowControlSoftware.String())
	assert.Equal(t, "hardware", FlowControlHardware.String())
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := newConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultPollTimeout, cfg.PollTimeout())
	assert.Equal(t, DefaultReadBufferLen, cfg.ReadBufferLen())
	assert.Equal(t, 0, cfg.MaxWriteAttempts())
	assert.NotNil(t, cfg.GetLogger())
}

func TestConfig_InvalidOptions(t *testing.T) {
	_, err := newConfig(WithPollTimeout(0))
	require.Error(t, err)

	_, err = newConfig(WithReadBufferLen(1))
	require.Error(t, err)

	_, err = newConfig(WithMaxWriteAttempts(-1))
	require.Error(t, err)

	_, err = newConfig(WithLogger(nil))
	require.Error(t, err)
}
