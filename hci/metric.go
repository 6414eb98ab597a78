package hci

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics for a WiMOD HCI connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// FrameRecvCount indicates the number of SLIP frames decoded.
	FrameRecvCount atomic.Uint64
	// FrameErrCount indicates the number of frames discarded by the SLIP decoder,
	// and of frames too short to hold a message.
	FrameErrCount atomic.Uint64
	// CRCErrCount indicates the number of frames failing the CRC check.
	CRCErrCount atomic.Uint64

	// MsgSendCount indicates the number of messages written to the transport.
	MsgSendCount atomic.Uint64
	// MsgRecvCount indicates the number of valid messages dispatched.
	MsgRecvCount atomic.Uint64
	// UnknownMsgCount indicates the number of messages no handler supports.
	UnknownMsgCount atomic.Uint64

	// ResponseTimeoutCount indicates the number of waits ending without a response.
	ResponseTimeoutCount atomic.Uint64
	// RLTStatusCount indicates the number of radio link test status indications processed.
	RLTStatusCount atomic.Uint64
	// SnapshotDropCount indicates the number of snapshots dropped because the sink fell behind.
	SnapshotDropCount atomic.Uint64
}

func (m *ConnectionMetrics) incFrameRecvCount() {
	m.FrameRecvCount.Add(1)
}

func (m *ConnectionMetrics) incFrameErrCount() {
	m.FrameErrCount.Add(1)
}

func (m *ConnectionMetrics) incCRCErrCount() {
	m.CRCErrCount.Add(1)
}

func (m *ConnectionMetrics) incMsgSendCount() {
	m.MsgSendCount.Add(1)
}

func (m *ConnectionMetrics) incMsgRecvCount() {
	m.MsgRecvCount.Add(1)
}

func (m *ConnectionMetrics) incUnknownMsgCount() {
	m.UnknownMsgCount.Add(1)
}

func (m *ConnectionMetrics) incResponseTimeoutCount() {
	m.ResponseTimeoutCount.Add(1)
}

func (m *ConnectionMetrics) incRLTStatusCount() {
	m.RLTStatusCount.Add(1)
}

func (m *ConnectionMetrics) incSnapshotDropCount() {
	m.SnapshotDropCount.Add(1)
}
