package hci

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-wimod/internal/pool"
	"github.com/arloliu/go-wimod/internal/task"
	"github.com/arloliu/go-wimod/logger"
	"github.com/arloliu/go-wimod/slip"
)

// Request is a message to send. Length is the number of payload bytes to
// send; zero means len(Payload).
type Request struct {
	ServiceID byte
	MessageID byte
	Payload   []byte
	Length    int
}

func (r *Request) payload() ([]byte, error) {
	n := r.Length
	if n == 0 {
		n = len(r.Payload)
	}

	if n < 0 || n > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadLength, n, MaxPayloadSize)
	}

	if n > len(r.Payload) {
		return nil, fmt.Errorf("%w: length %d, payload holds %d bytes", ErrPayloadPointer, n, len(r.Payload))
	}

	return r.Payload[:n], nil
}

// Connection is a WiMOD HCI session over a Transport.
//
// One receive goroutine, started by Open, reads the transport, decodes SLIP
// frames, validates messages and dispatches them. Any goroutine may send;
// writes are serialized. At most one request waits for its response at a
// time, a concurrent attempt fails with ErrRequestPending.
//
// The Transport belongs to the caller: Close stops the receive goroutine but
// leaves the transport open.
type Connection struct {
	pctx      context.Context
	ctx       context.Context
	ctxCancel context.CancelFunc
	ctxMu     sync.RWMutex

	cfg       *ConnectionConfig
	logger    logger.Logger
	transport Transport

	opened  atomic.Bool
	taskMgr *task.Manager

	// receive loop state
	blockingRead bool
	readBuf      []byte
	decoder      *slip.Decoder
	dispatcher   *dispatcher
	rlt          *rltService

	waiter *responseWaiter

	txMu  sync.Mutex
	txBuf []byte
	txMsg []byte

	metrics ConnectionMetrics
}

// NewConnection creates a Connection on transport with the given context and configuration.
func NewConnection(ctx context.Context, transport Transport, cfg *ConnectionConfig) (*Connection, error) {
	if transport == nil {
		return nil, errors.New("hci: transport is nil")
	}

	if cfg == nil {
		return nil, errors.New("hci: connection config is nil")
	}

	c := &Connection{
		pctx:      ctx,
		cfg:       cfg,
		logger:    cfg.logger,
		transport: transport,
		taskMgr:   task.NewManager(ctx, cfg.logger),
		readBuf:   make([]byte, cfg.readChunkSize),
		waiter:    newResponseWaiter(cfg.logger),
		txBuf:     make([]byte, slip.MaxEncodedLen(MaxMessageSize)),
		txMsg:     make([]byte, 0, MaxMessageSize),

		blockingRead: blocksOnRead(transport),
	}

	c.decoder = slip.NewDecoder(MaxMessageSize, c.onFrame)
	c.decoder.OnError(c.onFrameError)

	c.rlt = &rltService{
		serviceBase: c.newServiceBase("RadioLinkTest"),
		acc:         &CounterAccumulator{},
		sink:        cfg.snapshotSink,
		clock:       cfg.clock,
	}
	if cfg.snapshotSink != nil {
		c.rlt.snapshots = make(chan RLTSnapshot, cfg.snapshotQueue)
	}

	c.dispatcher = &dispatcher{
		waiter:    c.waiter,
		devMgmt:   &devMgmtService{serviceBase: c.newServiceBase("DeviceManagement")},
		radioLink: &radioLinkService{serviceBase: c.newServiceBase("RadioLink")},
		rlt:       c.rlt,
		unknown:   &unknownService{serviceBase: c.newServiceBase("Unknown")},
		subs:      xsync.NewMapOf[uint64, subscription](),
		metrics:   &c.metrics,
		logger:    cfg.logger,
	}

	c.ctx, c.ctxCancel = context.WithCancel(ctx)
	c.ctxCancel() // not opened yet

	return c, nil
}

func (c *Connection) newServiceBase(name string) serviceBase {
	return serviceBase{name: name, logger: c.logger, metrics: &c.metrics}
}

// GetLogger returns the logger of the connection.
func (c *Connection) GetLogger() logger.Logger {
	return c.logger
}

// GetMetrics returns the metrics of the connection.
func (c *Connection) GetMetrics() *ConnectionMetrics {
	return &c.metrics
}

// IsOpen reports whether the receive loop is running.
func (c *Connection) IsOpen() bool {
	return c.opened.Load()
}

// Open starts the receive loop. Opening an open connection is a no-op.
func (c *Connection) Open() error {
	if !c.opened.CompareAndSwap(false, true) {
		return nil
	}

	c.ctxMu.Lock()
	c.ctx, c.ctxCancel = context.WithCancel(c.pctx)
	c.ctxMu.Unlock()

	c.decoder.Reset()

	if c.rlt.snapshots != nil {
		err := c.taskMgr.Start("snapshotWriter", func() bool {
			return c.rlt.writeSnapshot(c.loopContext())
		}, nil)
		if err != nil {
			c.opened.Store(false)
			return err
		}
	}

	if err := c.taskMgr.Start("receiveLoop", c.receiveIteration, c.onReceiveLoopExit); err != nil {
		c.loopCancel()
		c.opened.Store(false)

		return err
	}

	c.logger.Info("hci: connection opened", "pollTimeout", c.cfg.pollTimeout, "responseTimeout", c.cfg.responseTimeout)

	return nil
}

// Close stops the receive loop and waits for it to exit, up to the close timeout.
// The transport is left open.
func (c *Connection) Close() error {
	c.loopCancel()
	c.taskMgr.Stop()

	done := make(chan struct{})
	go func() {
		c.taskMgr.Wait()
		close(done)
	}()

	closeTimer := pool.GetTimer(c.cfg.closeTimeout)
	defer pool.PutTimer(closeTimer)

	select {
	case <-done:
		c.logger.Debug("hci: connection closed")
		return nil

	case <-closeTimer.C:
		c.logger.Error("hci: close connection timeout", "timeout", c.cfg.closeTimeout)
		return errors.New("hci: close connection timeout")
	}
}

func (c *Connection) loopContext() context.Context {
	c.ctxMu.RLock()
	defer c.ctxMu.RUnlock()

	return c.ctx
}

func (c *Connection) loopCancel() {
	c.ctxMu.RLock()
	cancel := c.ctxCancel
	c.ctxMu.RUnlock()
	cancel()
}

// onReceiveLoopExit also stops the snapshot writer.
func (c *Connection) onReceiveLoopExit() {
	c.opened.Store(false)
	c.loopCancel()
}

// receiveIteration performs one bounded read and feeds the decoder.
func (c *Connection) receiveIteration() bool {
	ctx := c.loopContext()
	if ctx.Err() != nil {
		return false
	}

	if d, ok := c.transport.(ReadDeadliner); ok {
		if err := d.SetReadDeadline(time.Now().Add(c.cfg.pollTimeout)); err != nil {
			c.logger.Error("hci: failed to set read deadline", "error", err)
			return false
		}
	}

	n, err := c.transport.Read(c.readBuf)
	if n > 0 {
		c.decoder.Decode(c.readBuf[:n])
	}

	if err != nil {
		if isTimeout(err) {
			return true
		}

		if ctx.Err() == nil {
			c.logger.Error("hci: transport read failed", "error", err)
		}

		return false
	}

	if n == 0 && !c.blockingRead {
		// no bytes and the read returned immediately: avoid spinning
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.cfg.pollTimeout):
		}
	}

	return true
}

func (c *Connection) onFrame(frame []byte) {
	c.metrics.incFrameRecvCount()

	msg, err := ParseMessage(frame)
	if err != nil {
		if errors.Is(err, ErrChecksum) {
			c.metrics.incCRCErrCount()
		} else {
			c.metrics.incFrameErrCount()
		}
		c.logger.Debug("hci: invalid message dropped", "error", err, "length", len(frame))

		return
	}

	c.dispatcher.dispatch(msg)
}

func (c *Connection) onFrameError(err error) {
	c.metrics.incFrameErrCount()
	c.logger.Debug("hci: frame dropped", "error", err)
}

// Subscribe registers fn for messages with the given service and message ID.
// fn runs on the receive loop after the service handler and must not block.
// The returned function removes the registration.
func (c *Connection) Subscribe(serviceID, messageID byte, fn MessageHandler) (unsubscribe func()) {
	return c.dispatcher.subscribe(serviceID, messageID, fn)
}

// PostMessage sends a message without waiting for a response.
func (c *Connection) PostMessage(req Request) error {
	payload, err := req.payload()
	if err != nil {
		return err
	}

	c.txMu.Lock()
	defer c.txMu.Unlock()

	c.txMsg, err = AppendMessage(c.txMsg[:0], req.ServiceID, req.MessageID, payload)
	if err != nil {
		return err
	}

	n, err := slip.Encode(c.txBuf, c.txMsg)
	if err != nil {
		return err
	}

	written, err := c.transport.Write(c.txBuf[:n])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if written != n {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrTransport, written, n)
	}

	c.metrics.incMsgSendCount()
	c.logger.Debug("hci: message sent", "sap", req.ServiceID, "msgID", req.MessageID, "length", len(payload))

	return nil
}

// SendHCIMessage sends a message and waits for the response (serviceID, rspID)
// for at most the configured response timeout.
func (c *Connection) SendHCIMessage(ctx context.Context, serviceID, msgID, rspID byte, payload []byte) (*Message, error) {
	if !c.IsOpen() {
		return nil, ErrConnClosed
	}

	if err := c.waiter.start(serviceID, rspID, c.cfg.responseTimeout); err != nil {
		return nil, err
	}

	if err := c.PostMessage(Request{ServiceID: serviceID, MessageID: msgID, Payload: payload}); err != nil {
		c.waiter.reset()
		return nil, err
	}

	return c.await(ctx)
}

// WaitForMessage waits for the next message (serviceID, msgID) without
// sending anything. timeout <= 0 means the configured response timeout.
func (c *Connection) WaitForMessage(ctx context.Context, serviceID, msgID byte, timeout time.Duration) (*Message, error) {
	if !c.IsOpen() {
		return nil, ErrConnClosed
	}

	if timeout <= 0 {
		timeout = c.cfg.responseTimeout
	}

	if err := c.waiter.start(serviceID, msgID, timeout); err != nil {
		return nil, err
	}

	return c.await(ctx)
}

// await waits on the armed waiter, also giving up when the receive loop ends.
func (c *Connection) await(ctx context.Context) (*Message, error) {
	loopCtx := c.loopContext()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(loopCtx, cancel)
	defer stop()

	msg, err := c.waiter.wait(wctx)
	switch {
	case err == nil:
		return msg, nil

	case errors.Is(err, ErrNoResponse):
		c.metrics.incResponseTimeoutCount()
		c.logger.Warn("hci: no response", "error", err)

		return nil, err

	case ctx.Err() == nil && loopCtx.Err() != nil:
		return nil, ErrConnClosed

	default:
		return nil, err
	}
}

// request sends a message and returns the status byte of its response.
func (c *Connection) request(ctx context.Context, serviceID, msgID, rspID byte, payload []byte) (byte, error) {
	rsp, err := c.SendHCIMessage(ctx, serviceID, msgID, rspID, payload)
	if err != nil {
		return 0, err
	}

	return rsp.Status()
}
