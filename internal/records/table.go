package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one normalized record keyed by canonical column name.
// Missing cells read as "".
type Row map[string]string

// Get returns the cell for a canonical column, or "" when absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Table is a CSV source after column-alias normalization.
type Table struct {
	// Header is the raw header as read from the source.
	Header []string
	// Columns holds the canonical name for each Header entry.
	Columns []string
	// Derived lists columns computed at load time (not written back).
	Derived []string
	Rows    []Row
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// HasColumn reports whether a canonical column exists after normalization.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	for _, c := range t.Derived {
		if c == col {
			return true
		}
	}
	return false
}

// LoadTable reads a CSV file. A missing file yields an empty table, not an error.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses CSV content and normalizes its header.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{
		Header:  header,
		Columns: normalizeHeader(header),
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(t.Rows)+1, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		row := make(Row, len(t.Columns)+1)
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	t.deriveFullName()
	return t, nil
}

// normalizeHeader maps each raw header to its canonical name. When two headers
// alias to the same canonical column, the first wins and later ones keep their
// raw name.
func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		canon := CanonicalColumn(h)
		if seen[canon] {
			canon = strings.TrimSpace(h)
		}
		seen[canon] = true
		cols[i] = canon
	}
	return cols
}

// deriveFullName concatenates first and last name when the source has no
// single name column.
func (t *Table) deriveFullName() {
	if t.HasColumn(ColFullName) || !t.HasColumn(ColFirstName) || !t.HasColumn(ColLastName) {
		return
	}
	t.Derived = append(t.Derived, ColFullName)
	for _, row := range t.Rows {
		row[ColFullName] = strings.TrimSpace(row[ColFirstName] + " " + row[ColLastName])
	}
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
