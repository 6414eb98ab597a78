package hci

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"
)

// RLTStatusSize is the payload size of a radio link test status indication.
const RLTStatusSize = 15

// RLTConfigSize is the payload size of a radio link test start request.
const RLTConfigSize = 7

// RLTStatus is one radio link test status indication as reported by the module.
// The counters are 16-bit device counters and restart with every test run.
type RLTStatus struct {
	TestStatus byte
	LocalTx    uint16
	LocalRx    uint16
	PeerTx     uint16
	PeerRx     uint16
	LocalRSSI  int16 // dBm
	PeerRSSI   int16 // dBm
	LocalSNR   int8  // dB
	PeerSNR    int8  // dB
}

// ParseRLTStatus decodes the payload of a radio link test status indication.
func ParseRLTStatus(payload []byte) (RLTStatus, error) {
	if len(payload) < RLTStatusSize {
		return RLTStatus{}, fmt.Errorf("%w: RLT status of %d bytes, need %d", ErrMessageLength, len(payload), RLTStatusSize)
	}

	return RLTStatus{
		TestStatus: payload[0],
		LocalTx:    binary.LittleEndian.Uint16(payload[1:]),
		LocalRx:    binary.LittleEndian.Uint16(payload[3:]),
		PeerTx:     binary.LittleEndian.Uint16(payload[5:]),
		PeerRx:     binary.LittleEndian.Uint16(payload[7:]),
		LocalRSSI:  int16(binary.LittleEndian.Uint16(payload[9:])),
		PeerRSSI:   int16(binary.LittleEndian.Uint16(payload[11:])),
		LocalSNR:   int8(payload[13]),
		PeerSNR:    int8(payload[14]),
	}, nil
}

// RLTTotals holds counters accumulated over several test runs.
type RLTTotals struct {
	LocalTx int64
	LocalRx int64
	PeerTx  int64
	PeerRx  int64
}

// CounterAccumulator turns per-run device counters into running totals.
//
// A sample with LocalTx == 1 marks the first packet of a new run: its
// counters are added as they are. Any other sample adds the difference to
// the previous sample.
type CounterAccumulator struct {
	mu       sync.Mutex
	previous RLTStatus
	totals   RLTTotals
}

// Add folds sample into the totals and returns the new totals.
func (a *CounterAccumulator) Add(sample RLTStatus) RLTTotals {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sample.LocalTx == 1 {
		a.totals.LocalTx += int64(sample.LocalTx)
		a.totals.LocalRx += int64(sample.LocalRx)
		a.totals.PeerTx += int64(sample.PeerTx)
		a.totals.PeerRx += int64(sample.PeerRx)
	} else {
		a.totals.LocalTx += int64(sample.LocalTx) - int64(a.previous.LocalTx)
		a.totals.LocalRx += int64(sample.LocalRx) - int64(a.previous.LocalRx)
		a.totals.PeerTx += int64(sample.PeerTx) - int64(a.previous.PeerTx)
		a.totals.PeerRx += int64(sample.PeerRx) - int64(a.previous.PeerRx)
	}
	a.previous = sample

	return a.totals
}

// Totals returns the current totals.
func (a *CounterAccumulator) Totals() RLTTotals {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.totals
}

// RLTSnapshot is the reconciled state after one status indication.
type RLTSnapshot struct {
	Timestamp  time.Time
	TestStatus byte
	RLTTotals
	LocalRSSI int16
	PeerRSSI  int16
	LocalSNR  int8
	PeerSNR   int8
}

// SnapshotSink consumes radio link test snapshots.
//
// WriteSnapshot is called from a dedicated writer goroutine, one snapshot at
// a time and in arrival order. A slow sink never delays the receive loop, but
// snapshots arriving while the queue is full are dropped and counted in
// ConnectionMetrics.SnapshotDropCount.
type SnapshotSink interface {
	WriteSnapshot(s RLTSnapshot) error
}

// SnapshotSinkFunc adapts a function to SnapshotSink.
type SnapshotSinkFunc func(s RLTSnapshot) error

// WriteSnapshot calls f(s).
func (f SnapshotSinkFunc) WriteSnapshot(s RLTSnapshot) error { return f(s) }

// RLTConfig holds the parameters of a radio link test.
type RLTConfig struct {
	GroupAddress  byte
	DeviceAddress uint16
	PacketSize    byte
	NumPackets    uint16
	TestMode      byte // RLTModeSingle or RLTModeContinuous
}

// MarshalBinary returns the start request payload.
func (c RLTConfig) MarshalBinary() ([]byte, error) {
	b := make([]byte, RLTConfigSize)
	b[0] = c.GroupAddress
	binary.LittleEndian.PutUint16(b[1:], c.DeviceAddress)
	b[3] = c.PacketSize
	binary.LittleEndian.PutUint16(b[4:], c.NumPackets)
	b[6] = c.TestMode

	return b, nil
}

// rltService handles the radio link test service.
type rltService struct {
	serviceBase
	acc   *CounterAccumulator
	sink  SnapshotSink
	clock func() time.Time

	// snapshots queues snapshots for the writer task; nil without a sink.
	snapshots chan RLTSnapshot
}

func (s *rltService) handleMessage(msg *Message) {
	switch msg.MessageID {
	case RLTStartRsp, RLTStopRsp:
		s.logStatus(msg, RLTStatusString)

	case RLTStatusInd:
		s.handleStatus(msg)

	default:
		s.unsupported(msg)
	}
}

func (s *rltService) handleStatus(msg *Message) {
	sample, err := ParseRLTStatus(msg.Payload)
	if err != nil {
		s.logger.Warn("hci: malformed RLT status dropped", "error", err)
		return
	}

	s.metrics.incRLTStatusCount()
	totals := s.acc.Add(sample)

	snapshot := RLTSnapshot{
		Timestamp:  s.clock(),
		TestStatus: sample.TestStatus,
		RLTTotals:  totals,
		LocalRSSI:  sample.LocalRSSI,
		PeerRSSI:   sample.PeerRSSI,
		LocalSNR:   sample.LocalSNR,
		PeerSNR:    sample.PeerSNR,
	}

	s.logger.Debug("hci: RLT status",
		"localTx", totals.LocalTx, "localRx", totals.LocalRx,
		"peerTx", totals.PeerTx, "peerRx", totals.PeerRx,
		"localRSSI", sample.LocalRSSI, "peerRSSI", sample.PeerRSSI,
	)

	s.enqueue(snapshot)
}

// enqueue hands snapshot to the writer task without blocking.
func (s *rltService) enqueue(snapshot RLTSnapshot) {
	if s.snapshots == nil {
		return
	}

	select {
	case s.snapshots <- snapshot:
	default:
		s.metrics.incSnapshotDropCount()
		s.logger.Warn("hci: snapshot queue full, snapshot dropped",
			"queueSize", cap(s.snapshots), "dropped", s.metrics.SnapshotDropCount.Load())
	}
}

// writeSnapshot passes one queued snapshot to the sink. It runs on the
// snapshot writer task and returns false once ctx is done.
func (s *rltService) writeSnapshot(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false

	case snapshot := <-s.snapshots:
		if err := s.sink.WriteSnapshot(snapshot); err != nil {
			s.logger.Error("hci: snapshot sink failed", "error", err)
		}

		return true
	}
}

// StartRadioLinkTest starts a radio link test and returns the module status.
func (c *Connection) StartRadioLinkTest(ctx context.Context, cfg RLTConfig) (byte, error) {
	payload, _ := cfg.MarshalBinary()

	return c.request(ctx, RadioLinkTestSAP, RLTStartReq, RLTStartRsp, payload)
}

// StopRadioLinkTest stops a running radio link test and returns the module status.
func (c *Connection) StopRadioLinkTest(ctx context.Context) (byte, error) {
	return c.request(ctx, RadioLinkTestSAP, RLTStopReq, RLTStopRsp, nil)
}

// RLTTotals returns the radio link test totals accumulated since the
// connection was created.
func (c *Connection) RLTTotals() RLTTotals {
	return c.rlt.acc.Totals()
}
