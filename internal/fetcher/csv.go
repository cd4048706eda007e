// Package fetcher reads row-oriented input files (CSV and XLSX) for the
// contact adapters. Rows are delivered as raw string slices; interpreting
// columns is the adapters' job.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune            // default ','
	HasHeader  bool            // if true, first row is skipped but sent to HeaderCh
	HeaderCh   chan<- []string // optional: receives the header row
	LazyQuotes bool
	TrimSpace  bool // trim whitespace around every field
}

// StreamCSV reads CSV rows and sends them to a channel. Ragged rows are
// allowed; vendor exports routinely have missing trailing columns. Caller
// must drain the row channel, then check the error channel. Both channels
// are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // ragged rows allowed

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if first && opts.HasHeader {
				first = false
				if opts.HeaderCh != nil {
					select {
					case opts.HeaderCh <- record:
					case <-ctx.Done():
						errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending header")
						return
					}
				}
				continue
			}
			first = false

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// ReadCSV materializes an entire CSV file. The dedupe core operates over a
// fully loaded batch, so adapters read whole files rather than streaming
// into the merge passes.
func ReadCSV(ctx context.Context, r io.Reader, opts CSVOptions) (header []string, rows [][]string, err error) {
	headerCh := make(chan []string, 1)
	if opts.HasHeader {
		opts.HeaderCh = headerCh
	}

	rowCh, errCh := StreamCSV(ctx, r, opts)
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, nil, err
	}

	if opts.HasHeader {
		select {
		case header = <-headerCh:
		default:
		}
	}
	return header, rows, nil
}

// HeaderIndex maps trimmed, case-folded column labels to their positions.
// Duplicate labels keep the first occurrence.
func HeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, label := range header {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			continue
		}
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// Field returns the row value for the column labeled name, or "" when the
// column is absent or the row is too short to reach it.
func Field(idx map[string]int, row []string, name string) string {
	i, ok := idx[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
