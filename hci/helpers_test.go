package hci

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-wimod/logger"
	"github.com/arloliu/go-wimod/slip"
)

const testTimeout = 2 * time.Second

// testModule plays the radio module on the far end of an in-memory serial line.
type testModule struct {
	t    *testing.T
	conn net.Conn
	rx   chan *Message
}

func newTestModule(t *testing.T, conn net.Conn) *testModule {
	t.Helper()

	m := &testModule{t: t, conn: conn, rx: make(chan *Message, 16)}

	dec := slip.NewDecoder(MaxMessageSize, func(frame []byte) {
		msg, err := ParseMessage(frame)
		if err != nil {
			return
		}
		m.rx <- msg.Clone()
	})

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := conn.Read(buf)
			dec.Decode(buf[:n])
			if err != nil {
				return
			}
		}
	}()

	return m
}

// expect returns the next message sent by the host.
func (m *testModule) expect() *Message {
	m.t.Helper()

	select {
	case msg := <-m.rx:
		return msg
	case <-time.After(testTimeout):
		m.t.Fatal("timeout waiting for host message")
		return nil
	}
}

// expectNothing asserts that the host sent nothing within d.
func (m *testModule) expectNothing(d time.Duration) {
	m.t.Helper()

	select {
	case msg := <-m.rx:
		m.t.Fatalf("unexpected host message: %v", msg)
	case <-time.After(d):
	}
}

// send writes a valid message to the host.
func (m *testModule) send(serviceID, messageID byte, payload []byte) error {
	raw, err := BuildMessage(serviceID, messageID, payload)
	if err != nil {
		return err
	}

	return m.sendRaw(raw)
}

// sendRaw SLIP-encodes raw and writes it to the host.
func (m *testModule) sendRaw(raw []byte) error {
	_, err := m.conn.Write(slip.AppendEncode(nil, raw))

	return err
}

// respond answers the next host message with (serviceID, messageID, payload)
// from a separate goroutine. The returned channel yields the request.
func (m *testModule) respond(serviceID, messageID byte, payload []byte) <-chan *Message {
	reqCh := make(chan *Message, 1)

	go func() {
		select {
		case req := <-m.rx:
			reqCh <- req
			_ = m.send(serviceID, messageID, payload)
		case <-time.After(testTimeout):
			close(reqCh)
		}
	}()

	return reqCh
}

func testLogger() logger.Logger {
	return logger.NewSlog(logger.ErrorLevel, false)
}

// newTestConnection returns an opened Connection wired to a testModule.
func newTestConnection(t *testing.T, opts ...ConnOption) (*Connection, *testModule) {
	t.Helper()

	hostSide, moduleSide := net.Pipe()

	opts = append([]ConnOption{WithLogger(testLogger()), WithPollTimeout(10 * time.Millisecond)}, opts...)
	cfg, err := NewConnectionConfig(opts...)
	require.NoError(t, err)

	conn, err := NewConnection(context.Background(), hostSide, cfg)
	require.NoError(t, err)
	require.NoError(t, conn.Open())

	t.Cleanup(func() {
		_ = conn.Close()
		_ = moduleSide.Close()
		_ = hostSide.Close()
	})

	return conn, newTestModule(t, moduleSide)
}

func rltStatusPayload(s RLTStatus) []byte {
	b := make([]byte, RLTStatusSize)
	b[0] = s.TestStatus
	b[1], b[2] = byte(s.LocalTx), byte(s.LocalTx>>8)
	b[3], b[4] = byte(s.LocalRx), byte(s.LocalRx>>8)
	b[5], b[6] = byte(s.PeerTx), byte(s.PeerTx>>8)
	b[7], b[8] = byte(s.PeerRx), byte(s.PeerRx>>8)
	b[9], b[10] = byte(s.LocalRSSI), byte(s.LocalRSSI>>8)
	b[11], b[12] = byte(s.PeerRSSI), byte(s.PeerRSSI>>8)
	b[13] = byte(s.LocalSNR)
	b[14] = byte(s.PeerSNR)

	return b
}
