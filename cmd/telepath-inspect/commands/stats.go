package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mash-protocol/telepath-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents   int
	EventsByKind  map[string]int
	TypeUses      map[string]int
	Sessions      map[string]*SessionStats
	Failures      int
	TotalBytes    int
	TotalDuration time.Duration
	TimeRange     struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Failures  int
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[string]int),
		TypeUses:     make(map[string]int),
		Sessions:     make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.TotalBytes += event.Size
	s.TotalDuration += event.Duration

	// Track time range
	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}

	if event.Scan != nil {
		for name, n := range event.Scan.Types {
			s.TypeUses[name] += n
		}
	}

	if event.Outcome == log.OutcomeError {
		s.Failures++
		sess.Failures++
		kind := "Parse"
		if event.Error != nil && event.Error.Kind != "" {
			kind = event.Error.Kind
		}
		s.EventsByKind[kind]++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Telepath Decode Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Decodes: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Failures:      %d\n", stats.Failures)
	fmt.Fprintf(w, "Total Input:   %d bytes\n", stats.TotalBytes)
	if stats.TotalEvents > 0 {
		avg := stats.TotalDuration / time.Duration(stats.TotalEvents)
		fmt.Fprintf(w, "Avg Duration:  %s\n", avg)
	}

	if len(stats.EventsByKind) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures by Kind:")
		for _, kind := range sortedKeys(stats.EventsByKind) {
			fmt.Fprintf(w, "  %-22s %d\n", kind+":", stats.EventsByKind[kind])
		}
	}

	if len(stats.TypeUses) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Type Uses:")
		for _, name := range sortedKeys(stats.TypeUses) {
			fmt.Fprintf(w, "  %-22s %d\n", name+":", stats.TypeUses[name])
		}
	}

	// Sessions
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		// Sort by first seen time
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d decodes, %d failed, span %s\n", shortenID(s.id), s.stats.Events, s.stats.Failures, duration)
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
