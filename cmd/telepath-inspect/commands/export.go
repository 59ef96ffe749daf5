package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mash-protocol/telepath-go/pkg/log"
)

// RunExport exports the trace file to the specified format.
func RunExport(path, format string, filter TraceFilter, output string, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	out, closeOut, err := openOutput(output, w)
	if err != nil {
		return err
	}
	defer closeOut()

	switch format {
	case "jsonl":
		return exportJSONL(reader, out)
	case "csv":
		return exportCSV(reader, out)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "source", "format", "size", "outcome", "duration_us", "ids", "refs", "error_kind", "error_path"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var ids, refs, kind, path string
		if event.Scan != nil {
			ids = strconv.Itoa(event.Scan.IDs)
			refs = strconv.Itoa(event.Scan.Refs)
		}
		if event.Error != nil {
			kind = event.Error.Kind
			path = event.Error.Path
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Source,
			event.Format,
			strconv.Itoa(event.Size),
			event.Outcome.String(),
			strconv.FormatInt(event.Duration.Microseconds(), 10),
			ids,
			refs,
			kind,
			path,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
