package sink

import (
	"errors"

	"github.com/arloliu/go-wimod/hci"
	"github.com/arloliu/go-wimod/logger"
)

// LogSink writes snapshots to a logger at info level.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink returns a LogSink. A nil logger selects the package default.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.GetLogger()
	}

	return &LogSink{logger: l}
}

// WriteSnapshot logs snap.
func (s *LogSink) WriteSnapshot(snap hci.RLTSnapshot) error {
	s.logger.Info("radio link test status",
		"status", hci.RLTStatusString(snap.TestStatus),
		"local_tx", snap.LocalTx,
		"local_rx", snap.LocalRx,
		"peer_tx", snap.PeerTx,
		"peer_rx", snap.PeerRx,
		"local_rssi_dbm", snap.LocalRSSI,
		"peer_rssi_dbm", snap.PeerRSSI,
		"local_snr_db", snap.LocalSNR,
		"peer_snr_db", snap.PeerSNR,
	)

	return nil
}

// Multi fans a snapshot out to several sinks.
type Multi []hci.SnapshotSink

// WriteSnapshot writes snap to every sink, even if an earlier one fails,
// and returns the joined errors.
func (m Multi) WriteSnapshot(snap hci.RLTSnapshot) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}

		if err := s.WriteSnapshot(snap); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
