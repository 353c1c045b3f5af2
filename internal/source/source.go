// Package source reads student records from a CSV import file.
//
// The first record is the header. Header cells are matched exactly after
// trimming whitespace and removing a UTF-8 byte order mark. Every column in
// core.ImportColumns must be present; any other column is passed through and
// ignored by the importer. Cell values are returned as given, except that
// invalid UTF-8 is replaced with U+FFFD.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/JonMunkholm/studentdb/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MissingColumnsError reports required headers absent from the file.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "import header: missing required columns: " + strings.Join(e.Missing, ", ")
}

// File is an open CSV import file.
type File struct {
	path string
	f    *os.File
}

// Open opens the import file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	return &File{path: path, f: f}, nil
}

// Path returns the file's path.
func (f *File) Path() string {
	return f.path
}

// Rows reads the file from its current position. It is meant to be ranged
// over once.
func (f *File) Rows() iter.Seq2[core.SourceRow, error] {
	return Read(f.f)
}

// Close closes the file.
func (f *File) Close() error {
	return f.f.Close()
}

// Read returns the records of r keyed by header. A header problem is yielded
// as the first and only error, before any row. Reading stops at the first
// malformed record.
func Read(r io.Reader) iter.Seq2[core.SourceRow, error] {
	return func(yield func(core.SourceRow, error) bool) {
		cr := csv.NewReader(skipBOM(r))
		cr.FieldsPerRecord = -1 // short rows leave cells unset
		cr.LazyQuotes = true
		cr.ReuseRecord = true

		header, err := readHeader(cr)
		if err != nil {
			yield(nil, err)
			return
		}

		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read import file: %w", err))
				return
			}

			row := make(core.SourceRow, len(header))
			for i, name := range header {
				if i >= len(record) {
					break
				}
				row[name] = strings.ToValidUTF8(record[i], "\uFFFD")
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func readHeader(cr *csv.Reader) ([]string, error) {
	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Missing: core.ImportColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read import header: %w", err)
	}

	header := make([]string, len(record))
	present := make(map[string]bool, len(record))
	for i, cell := range record {
		name := strings.TrimSpace(strings.ToValidUTF8(cell, "\uFFFD"))
		header[i] = name
		present[name] = true
	}

	var missing []string
	for _, col := range core.ImportColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	return header, nil
}

// skipBOM drops a leading UTF-8 byte order mark, as written by spreadsheet
// exports on Windows.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}
