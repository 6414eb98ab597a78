package hci

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-wimod/logger"
)

// MessageHandler receives a dispatched message. The message borrows the
// receive buffer and is only valid during the call; use Message.Clone to keep it.
type MessageHandler func(msg *Message)

type serviceHandler interface {
	handleMessage(msg *Message)
}

// serviceBase carries what every service handler needs.
type serviceBase struct {
	name    string
	logger  logger.Logger
	metrics *ConnectionMetrics
}

func (s *serviceBase) unsupported(msg *Message) {
	s.metrics.incUnknownMsgCount()
	s.logger.Warn("hci: unsupported message",
		"service", s.name, "sap", msg.ServiceID, "msgID", msg.MessageID, "length", msg.Length())
}

func (s *serviceBase) logStatus(msg *Message, text func(byte) string) {
	status, err := msg.Status()
	if err != nil {
		s.logger.Warn("hci: response without status", "service", s.name, "msgID", msg.MessageID)
		return
	}

	s.logger.Debug("hci: response received", "service", s.name, "msgID", msg.MessageID, "status", text(status))
}

// unknownService takes messages of service IDs nobody handles.
type unknownService struct {
	serviceBase
}

func (s *unknownService) handleMessage(msg *Message) {
	s.unsupported(msg)
}

type subscription struct {
	serviceID byte
	messageID byte
	fn        MessageHandler
}

// dispatcher routes validated messages. It runs on the receive loop only,
// except for the subscription registry which is safe for concurrent use.
type dispatcher struct {
	waiter    *responseWaiter
	devMgmt   serviceHandler
	radioLink serviceHandler
	rlt       serviceHandler
	unknown   serviceHandler

	subs   *xsync.MapOf[uint64, subscription]
	nextID atomic.Uint64

	metrics *ConnectionMetrics
	logger  logger.Logger
}

// dispatch hands msg to the waiter, its service handler and the subscribers, in that order.
func (d *dispatcher) dispatch(msg *Message) {
	d.metrics.incMsgRecvCount()

	if d.waiter.match(msg) {
		d.logger.Debug("hci: response matched", "sap", msg.ServiceID, "msgID", msg.MessageID)
	}

	d.route(msg.ServiceID).handleMessage(msg)
	d.notify(msg)
}

func (d *dispatcher) route(serviceID byte) serviceHandler {
	switch serviceID {
	case DevMgmtSAP:
		return d.devMgmt
	case RadioLinkSAP:
		return d.radioLink
	case RadioLinkTestSAP:
		return d.rlt
	default:
		return d.unknown
	}
}

func (d *dispatcher) subscribe(serviceID, messageID byte, fn MessageHandler) func() {
	id := d.nextID.Add(1)
	d.subs.Store(id, subscription{serviceID: serviceID, messageID: messageID, fn: fn})

	return func() { d.subs.Delete(id) }
}

func (d *dispatcher) notify(msg *Message) {
	d.subs.Range(func(_ uint64, sub subscription) bool {
		if sub.serviceID == msg.ServiceID && sub.messageID == msg.MessageID {
			d.callWithRecover(sub.fn, msg)
		}

		return true
	})
}

func (d *dispatcher) callWithRecover(fn MessageHandler, msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("hci: panic in message handler", "sap", msg.ServiceID, "msgID", msg.MessageID, "panic", r)
		}
	}()

	fn(msg)
}
