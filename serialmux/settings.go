//go:build linux

package serialmux

import (
	"fmt"
	"time"
)

// DataBits is the number of bits used to represent a character on the line.
type DataBits int

const (
	DataBits5 DataBits = 5
	DataBits6 DataBits = 6
	DataBits7 DataBits = 7
	DataBits8 DataBits = 8
)

func (d DataBits) String() string {
	return fmt.Sprintf("%d", int(d))
}

// Parity is the parity checking mode.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "none"
	}
}

// StopBits is the number of bits used to signal the end of a character.
type StopBits int

const (
	StopBits1 StopBits = 1
	StopBits2 StopBits = 2
)

func (s StopBits) String() string {
	return fmt.Sprintf("%d", int(s))
}

// FlowControl is the signalling used to pace data transfer.
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlSoftware
	FlowControlHardware
)

func (f FlowControl) String() string {
	switch f {
	case FlowControlSoftware:
		return "software"
	case FlowControlHardware:
		return "hardware"
	default:
		return "none"
	}
}

// PortSettings describes one serial device to open.
type PortSettings struct {
	// Label is the intuitive name used to address this port. Defaults to Path.
	Label string
	// Path is the device path, e.g. /dev/ttyUSB0.
	Path string
	// BaudRate is the line speed in symbols per second.
	BaudRate int
	// DataBits is the character size on the line.
	DataBits DataBits
	// Parity is the parity checking mode.
	Parity Parity
	// StopBits is the number of stop bits per character.
	StopBits StopBits
	// FlowControl is the pacing mode.
	FlowControl FlowControl
	// ReadTimeout is informational only: all I/O through the mux is
	// non-blocking, so the driver-level read timeout never applies.
	ReadTimeout time.Duration
}

// DefaultPortSettings returns settings for path at 115200 8-N-1 with no flow control.
func DefaultPortSettings(path string) PortSettings {
	return PortSettings{
		Path:        path,
		BaudRate:    115200,
		DataBits:    DataBits8,
		Parity:      ParityNone,
		StopBits:    StopBits1,
		FlowControl: FlowControlNone,
	}
}

// label returns the effective label: the explicit one, or the device path.
func (s *PortSettings) label() string {
	if s.Label != "" {
		return s.Label
	}

	return s.Path
}

// Validate checks the settings for values the open path cannot express.
func (s *PortSettings) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("serialmux: device path is empty")
	}

	if _, ok := baudRates[s.BaudRate]; !ok {
		return fmt.Errorf("serialmux: unsupported baud rate %d", s.BaudRate)
	}

	switch s.DataBits {
	case DataBits5, DataBits6, DataBits7, DataBits8:
	default:
		return fmt.Errorf("serialmux: invalid data bits %d", int(s.DataBits))
	}

	switch s.Parity {
	case ParityNone, ParityOdd, ParityEven:
	default:
		return fmt.Errorf("serialmux: invalid parity %d", int(s.Parity))
	}

	switch s.StopBits {
	case StopBits1, StopBits2:
	default:
		return fmt.Errorf("serialmux: invalid stop bits %d", int(s.StopBits))
	}

	switch s.FlowControl {
	case FlowControlNone, FlowControlSoftware, FlowControlHardware:
	default:
		return fmt.Errorf("serialmux: invalid flow control %d", int(s.FlowControl))
	}

	return nil
}
