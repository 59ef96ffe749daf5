// Package log records decode sessions as structured trace events.
//
// The telepath codec itself never logs. Tools that decode trees on behalf
// of a user (telepath-inspect, test harnesses) describe each Unpack call
// with an Event: where the tree came from, a digest of its bytes, what
// the scan pass found, and how decoding ended. This is separate from
// operational logging (slog): traces are a machine-readable record that
// can be filtered and replayed later.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: append to a binary trace file
//	logger, _ := log.NewFileLogger("decode.tlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with integer keys and
// the .tlog extension. The telepath-inspect trace command views them.
package log
