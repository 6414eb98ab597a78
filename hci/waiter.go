package hci

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/arloliu/go-wimod/internal/pool"
	"github.com/arloliu/go-wimod/logger"
)

// Response waiter states.
const (
	waiterIdle      = "idle"
	waiterWaiting   = "waiting"
	waiterSatisfied = "satisfied"
	waiterTimedOut  = "timedOut"
)

// Response waiter events.
const (
	eventStart   = "start"
	eventSatisfy = "satisfy"
	eventExpire  = "expire"
	eventReset   = "reset"
)

// responseWaiter correlates one outstanding request with its response.
//
// The caller goroutine arms it with start and blocks in wait. The receive
// loop offers every valid message to match. At most one wait is in progress.
type responseWaiter struct {
	mu        sync.Mutex
	state     *fsm.FSM
	serviceID byte
	messageID byte
	timeout   time.Duration
	deadline  time.Time
	resultCh  chan *Message
	logger    logger.Logger
}

func newResponseWaiter(l logger.Logger) *responseWaiter {
	w := &responseWaiter{
		resultCh: make(chan *Message, 1),
		logger:   l,
	}

	w.state = fsm.NewFSM(
		waiterIdle,
		fsm.Events{
			{Name: eventStart, Src: []string{waiterIdle}, Dst: waiterWaiting},
			{Name: eventSatisfy, Src: []string{waiterWaiting}, Dst: waiterSatisfied},
			{Name: eventExpire, Src: []string{waiterWaiting}, Dst: waiterTimedOut},
			{Name: eventReset, Src: []string{waiterWaiting, waiterSatisfied, waiterTimedOut}, Dst: waiterIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				l.Debug("hci: response waiter transition", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)

	return w
}

// current returns the waiter state name.
func (w *responseWaiter) current() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state.Current()
}

// start arms the waiter for the message (serviceID, messageID), expiring after timeout.
func (w *responseWaiter) start(serviceID, messageID byte, timeout time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.state.Event(context.Background(), eventStart); err != nil {
		return fmt.Errorf("%w: waiting for 0x%02X/0x%02X", ErrRequestPending, w.serviceID, w.messageID)
	}

	w.serviceID = serviceID
	w.messageID = messageID
	w.timeout = timeout
	w.deadline = time.Now().Add(timeout)

	return nil
}

// match satisfies the waiter if it waits for msg. It reports whether msg was
// the awaited message. A waiter is satisfied at most once per start.
func (w *responseWaiter) match(msg *Message) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.Is(waiterWaiting) || msg.ServiceID != w.serviceID || msg.MessageID != w.messageID {
		return false
	}

	if err := w.state.Event(context.Background(), eventSatisfy); err != nil {
		return false
	}

	// resultCh is empty here: it is drained on reset and filled only on satisfy
	w.resultCh <- msg.Clone()

	return true
}

// wait blocks until the awaited message arrives, the deadline elapses or ctx
// is done. The waiter is idle again when wait returns.
func (w *responseWaiter) wait(ctx context.Context) (*Message, error) {
	defer w.reset()

	w.mu.Lock()
	serviceID, messageID := w.serviceID, w.messageID
	timeout, deadline := w.timeout, w.deadline
	w.mu.Unlock()

	timer := pool.GetDeadlineTimer(deadline)
	defer pool.PutTimer(timer)

	select {
	case msg := <-w.resultCh:
		return msg, nil

	case <-timer.C:
		if msg, ok := w.abandon(eventExpire); ok {
			return msg, nil
		}

		return nil, fmt.Errorf("%w: 0x%02X/0x%02X within %v", ErrNoResponse, serviceID, messageID, timeout)

	case <-ctx.Done():
		if msg, ok := w.abandon(""); ok {
			return msg, nil
		}

		return nil, ctx.Err()
	}
}

// abandon ends a wait that stopped listening. A message matched in the
// meantime is still returned. event, if not empty, is fired while waiting.
func (w *responseWaiter) abandon(event string) (*Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Is(waiterSatisfied) {
		return <-w.resultCh, true
	}

	if event != "" {
		_ = w.state.Event(context.Background(), event)
	}

	return nil, false
}

// reset returns the waiter to idle and discards an unclaimed message.
func (w *responseWaiter) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.resultCh:
	default:
	}

	if !w.state.Is(waiterIdle) {
		_ = w.state.Event(context.Background(), eventReset)
	}
}
