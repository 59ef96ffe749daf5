package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/mash-protocol/telepath-go/pkg/log"
)

// TraceFilter specifies criteria for filtering events in the trace commands.
type TraceFilter struct {
	SessionID string
	Source    string
	Outcome   *log.Outcome
	Kind      string
}

func (f TraceFilter) logFilter() log.Filter {
	return log.Filter{
		SessionID: f.SessionID,
		Source:    f.Source,
		Outcome:   f.Outcome,
		Kind:      f.Kind,
	}
}

// ParseOutcomeFlag converts a flag value to an Outcome.
func ParseOutcomeFlag(s string) (log.Outcome, error) {
	return log.ParseOutcome(s)
}

// RunTrace prints the trace file in human-readable format.
func RunTrace(path string, filter TraceFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] OUTCOME source
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	source := event.Source
	if source == "" {
		source = "-"
	}
	fmt.Fprintf(w, "%s [session:%s] %-5s %s\n", ts, shortenID(event.SessionID), event.Outcome.String(), source)

	if event.Format != "" || event.Size > 0 {
		fmt.Fprintf(w, "  Input: %s, %d bytes", orDash(event.Format), event.Size)
		if event.Digest != "" {
			fmt.Fprintf(w, ", blake2b %s", shortenDigest(event.Digest))
		}
		fmt.Fprintln(w)
	}
	if event.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", event.Duration)
	}
	if event.Scan != nil {
		formatScanDetails(w, event.Scan)
	}
	if event.Error != nil {
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

func formatScanDetails(w io.Writer, s *log.ScanStats) {
	fmt.Fprintf(w, "  Scan: %d ids, %d refs", s.IDs, s.Refs)
	if s.Unresolved > 0 {
		fmt.Fprintf(w, ", %d unresolved", s.Unresolved)
	}
	fmt.Fprintln(w)

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "    %s: %d\n", name, s.Types[name])
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorData) {
	if e.Kind != "" {
		fmt.Fprintf(w, "  Error: %s\n", e.Kind)
	} else {
		fmt.Fprintln(w, "  Error: parse")
	}
	if e.Path != "" {
		fmt.Fprintf(w, "  Path: %s\n", e.Path)
	}
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func shortenDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
