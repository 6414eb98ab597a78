// Package hci implements the host side of the WiMOD LR Host Controller
// Interface, the serial protocol spoken by IMST WiMOD radio modules.
//
// # Wire format
//
// Every message is carried in one SLIP frame (see package slip) and laid out as
//
//	[service ID][message ID][payload 0..280 bytes][CRC16, low byte first]
//
// The checksum is the one's complement of CRC-16/MCRF4XX over the service
// ID, message ID and payload. Multi-byte payload fields are little-endian.
//
// # Connection
//
// A [Connection] wraps a [Transport], typically a serial port. Open starts a
// receive goroutine which decodes frames, drops invalid ones and dispatches
// valid messages:
//
//  1. to the pending request, if the message is its awaited response;
//  2. to the built-in handler of its service (device management, radio link,
//     radio link test), which logs it and updates state such as the radio
//     link test counters;
//  3. to the handlers registered with [Connection.Subscribe].
//
// A response is therefore never lost for other consumers, and unsolicited
// indications arriving while a request waits are delivered normally.
//
// Requests are synchronous. [Connection.SendHCIMessage] sends a message and
// blocks until the response arrives, the response timeout elapses
// ([ErrNoResponse]) or the context is done. Only one request may wait at a
// time; a concurrent one fails with [ErrRequestPending].
//
//	cfg, _ := hci.NewConnectionConfig(hci.WithResponseTimeout(time.Second))
//	conn, _ := hci.NewConnection(ctx, port, cfg)
//	if err := conn.Open(); err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	if err := conn.Ping(ctx); err != nil {
//	    return err
//	}
//
// # Radio link test
//
// The module reports radio link test progress with per-run 16-bit counters.
// The connection folds them into running totals with a [CounterAccumulator]
// and hands an [RLTSnapshot] to the configured [SnapshotSink] for every
// status indication.
package hci
