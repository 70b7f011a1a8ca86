package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// RowError marks a single malformed row. The stream can continue past it.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("malformed row at line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// RowReader turns a CSV stream into JSON row objects keyed by the header.
// Only the current row is held in memory.
type RowReader struct {
	r      *csv.Reader
	header []string
}

// NewRowReader wraps src. The first record is read lazily as the header.
func NewRowReader(src io.Reader) *RowReader {
	r := csv.NewReader(src)
	r.ReuseRecord = true
	r.TrimLeadingSpace = true
	return &RowReader{r: r}
}

// Header returns the normalised header, or nil before the first Next call
func (rr *RowReader) Header() []string {
	return rr.header
}

// Next returns the next row serialised as a JSON object. It returns io.EOF at
// the end of the stream, a *RowError for a row that should be skipped, and any
// other error when the stream itself failed.
func (rr *RowReader) Next() ([]byte, error) {
	if rr.header == nil {
		if err := rr.readHeader(); err != nil {
			return nil, err
		}
	}

	record, err := rr.r.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &RowError{Line: parseErr.Line, Err: parseErr.Err}
		}
		return nil, err
	}

	row := make(map[string]string, len(rr.header))
	for i, name := range rr.header {
		if name == "" || record[i] == "" {
			continue
		}
		row[name] = record[i]
	}
	return json.Marshal(row)
}

func (rr *RowReader) readHeader() error {
	record, err := rr.r.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("unreadable header: %w", err)
		}
		return err
	}

	header := make([]string, len(record))
	for i, name := range record {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	rr.header = header
	rr.r.FieldsPerRecord = len(header)
	return nil
}
