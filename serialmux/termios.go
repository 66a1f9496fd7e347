//go:build linux

package serialmux

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// baudRates maps supported line speeds to their termios constants.
var baudRates = map[int]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	2000000: unix.B2000000,
	4000000: unix.B4000000,
}

// openDevice opens and configures the serial device described by settings and
// returns its file descriptor. The descriptor is left in non-blocking mode for
// the lifetime of the port; every read and write through the mux relies on
// EAGAIN to signal "nothing to do right now".
func openDevice(settings *PortSettings) (int, error) {
	if err := settings.Validate(); err != nil {
		return -1, err
	}

	fd, err := unix.Open(settings.Path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0o666)
	if err != nil {
		return -1, fmt.Errorf("serialmux: open %s: %w", settings.Path, err)
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		_ = unix.Close(fd)

		return -1, fmt.Errorf("serialmux: get termios %s: %w", settings.Path, err)
	}

	// Raw mode: no line editing, no echo, no signal generation, no CR/NL mangling.
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag |= unix.CLOCAL | unix.CREAD

	baud := baudRates[settings.BaudRate]
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud
	termios.Ispeed = baud
	termios.Ospeed = baud

	termios.Cflag &^= unix.CSIZE
	switch settings.DataBits {
	case DataBits5:
		termios.Cflag |= unix.CS5
	case DataBits6:
		termios.Cflag |= unix.CS6
	case DataBits7:
		termios.Cflag |= unix.CS7
	case DataBits8:
		termios.Cflag |= unix.CS8
	}

	switch settings.Parity {
	case ParityNone:
		termios.Cflag &^= unix.PARENB
	case ParityOdd:
		termios.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		termios.Cflag |= unix.PARENB
		termios.Cflag &^= unix.PARODD
	}

	switch settings.StopBits {
	case StopBits1:
		termios.Cflag &^= unix.CSTOPB
	case StopBits2:
		termios.Cflag |= unix.CSTOPB
	}

	switch settings.FlowControl {
	case FlowControlNone:
		termios.Cflag &^= unix.CRTSCTS
	case FlowControlSoftware:
		termios.Iflag |= unix.IXON | unix.IXOFF
	case FlowControlHardware:
		termios.Cflag |= unix.CRTSCTS
	}

	// VMIN=0, VTIME=0: reads return immediately with whatever is buffered.
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		_ = unix.Close(fd)

		return -1, fmt.Errorf("serialmux: set termios %s: %w", settings.Path, err)
	}

	return fd, nil
}
