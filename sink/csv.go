package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/arloliu/go-wimod/hci"
)

// CSVHeader is the first row written by a CSVSink.
var CSVHeader = []string{
	"Time",
	"Local Tx Count",
	"Local Rx Count",
	"Peer Tx Count",
	"Peer Rx Count",
	"Local RSSI [dBm]",
	"Peer RSSI [dBm]",
	"Local SNR [dB]",
	"Peer SNR [dB]",
}

// TimeLayout formats the Time column.
const TimeLayout = "2006-01-02T15:04:05"

// ErrSinkClosed is returned by WriteSnapshot after Close.
var ErrSinkClosed = errors.New("sink: closed")

// CSVSink writes radio link test snapshots as CSV rows.
type CSVSink struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	closed bool
}

// NewCSVSink writes the header row to w and returns a sink appending to it.
// comment, if not empty, is written as a "# "-prefixed line after the header.
func NewCSVSink(w io.Writer, comment string) (*CSVSink, error) {
	s := &CSVSink{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}

	if err := s.w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("sink: write csv header: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return nil, fmt.Errorf("sink: write csv header: %w", err)
	}

	if comment != "" {
		if _, err := io.WriteString(w, "# "+comment+"\n"); err != nil {
			return nil, fmt.Errorf("sink: write csv comment: %w", err)
		}
	}

	return s, nil
}

// CreateCSVFile creates (or truncates) the file at path and returns a sink
// writing to it. The file is closed by Close.
func CreateCSVFile(path string, comment string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: create csv file: %w", err)
	}

	s, err := NewCSVSink(f, comment)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return s, nil
}

// WriteSnapshot appends one row and flushes it.
func (s *CSVSink) WriteSnapshot(snap hci.RLTSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	if err := s.w.Write(csvRecord(snap)); err != nil {
		return fmt.Errorf("sink: write csv row: %w", err)
	}
	s.w.Flush()

	return s.w.Error()
}

// Close flushes pending rows and closes the underlying writer if it is an io.Closer.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}

	return err
}

func csvRecord(snap hci.RLTSnapshot) []string {
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return []string{
		ts.Format(TimeLayout),
		strconv.FormatInt(snap.LocalTx, 10),
		strconv.FormatInt(snap.LocalRx, 10),
		strconv.FormatInt(snap.PeerTx, 10),
		strconv.FormatInt(snap.PeerRx, 10),
		strconv.Itoa(int(snap.LocalRSSI)),
		strconv.Itoa(int(snap.PeerRSSI)),
		strconv.Itoa(int(snap.LocalSNR)),
		strconv.Itoa(int(snap.PeerSNR)),
	}
}
