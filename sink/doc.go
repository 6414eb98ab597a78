// Package sink provides hci.SnapshotSink implementations for radio link
// test measurements.
//
// CSVSink appends one row per snapshot to a CSV file, MQTTSink publishes each
// snapshot as a JSON document, LogSink writes it to a logger, and Multi fans
// a snapshot out to several sinks.
package sink
