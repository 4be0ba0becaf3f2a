// Package colortable maps human-readable color names to hex codes.
package colortable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is immutable once loaded and safe for concurrent lookups.
type Table struct {
	colors map[string]string
}

// LoadError reports an unreadable or malformed color file.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("color table %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("color table %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a CSV color file. The first line is a header and is skipped.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

// Parse reads name,hex records after a header line. Extra columns are
// ignored and later duplicates overwrite earlier ones.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &Table{colors: make(map[string]string)}

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return table, nil
		}
		return nil, &LoadError{Line: 1, Err: err}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Err: err}
		}
		if len(record) < 2 {
			line, _ := reader.FieldPos(0)
			return nil, &LoadError{Line: line, Err: fmt.Errorf("expected name and hex code, got %d field(s)", len(record))}
		}

		name := normalize(record[0])
		if name == "" {
			continue
		}
		table.colors[name] = strings.TrimSpace(record[1])
	}

	return table, nil
}

// Lookup returns the hex code for name, ignoring case and surrounding
// whitespace.
func (t *Table) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	hex, ok := t.colors[normalize(name)]
	return hex, ok
}

func (t *Table) Len() int {
	return len(t.colors)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
