//go:build linux

package serialmux

import (
	"sync/atomic"
)

// Metrics contains atomic counters for a Mux.
// The counters can be used as the value of a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// PollCount indicates the number of reactor polls performed.
	PollCount atomic.Uint64

	// ReadRecordCount indicates the number of read records emitted.
	ReadRecordCount atomic.Uint64
	// BytesReadCount indicates the total number of bytes drained from all ports.
	BytesReadCount atomic.Uint64
	// ReadErrCount indicates the number of non-fatal read errors.
	ReadErrCount atomic.Uint64

	// WriteRequestCount indicates the number of write requests completed.
	WriteRequestCount atomic.Uint64
	// BytesWrittenCount indicates the total number of bytes accepted by all ports.
	BytesWrittenCount atomic.Uint64
	// WriteErrCount indicates the number of non-fatal write errors.
	WriteErrCount atomic.Uint64
	// WriteRetryCount indicates the number of would-block write retries.
	WriteRetryCount atomic.Uint64
	// PartialWriteCount indicates the number of short write counts returned by the driver.
	PartialWriteCount atomic.Uint64

	// PortClosedCount indicates the number of ports that reached end-of-stream.
	PortClosedCount atomic.Uint64
}

func (m *Metrics) incPollCount() {
	m.PollCount.Add(1)
}

func (m *Metrics) incReadRecordCount() {
	m.ReadRecordCount.Add(1)
}

func (m *Metrics) addBytesRead(n uint64) {
	m.BytesReadCount.Add(n)
}

func (m *Metrics) incReadErrCount() {
	m.ReadErrCount.Add(1)
}

func (m *Metrics) incWriteRequestCount() {
	m.WriteRequestCount.Add(1)
}

func (m *Metrics) addBytesWritten(n uint64) {
	m.BytesWrittenCount.Add(n)
}

func (m *Metrics) incWriteErrCount() {
	m.WriteErrCount.Add(1)
}

func (m *Metrics) incWriteRetryCount() {
	m.WriteRetryCount.Add(1)
}

func (m *Metrics) incPartialWriteCount() {
	m.PartialWriteCount.Add(1)
}

func (m *Metrics) incPortClosedCount() {
	m.PortClosedCount.Add(1)
}
