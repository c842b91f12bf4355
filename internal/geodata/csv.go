package geodata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV builds a Table from CSV with a header row. The index column
// provides entity keys; keep selects the other columns to load (nil keeps
// all). Empty cells and the literal "NaN" are absent values.
func ReadCSV(r io.Reader, index string, keep func(column string) bool) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty CSV input")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	indexPos := -1
	var attrs []string
	var attrPos []int
	for i, col := range header {
		if col == index {
			indexPos = i
			continue
		}
		if keep == nil || keep(col) {
			attrs = append(attrs, col)
			attrPos = append(attrPos, i)
		}
	}
	if indexPos < 0 {
		return nil, fmt.Errorf("index column %q not found in CSV header", index)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	entities := make([]string, 0, len(records))
	for _, rec := range records {
		entities = append(entities, rec[indexPos])
	}

	t, err := NewTable(entities, attrs)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		for k, pos := range attrPos {
			if v := rec[pos]; v != "" && v != "NaN" {
				// keys come from the table itself
				_ = t.Set(rec[indexPos], attrs[k], Some(v))
			}
		}
	}
	return t, nil
}

// WriteCSV writes t with the index column first. Absent values are empty
// cells.
func WriteCSV(w io.Writer, t *Table, index string) error {
	cw := csv.NewWriter(w)
	header := append([]string{index}, t.attributes...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, entity := range t.entities {
		row := make([]string, 0, len(header))
		row = append(row, entity)
		for _, v := range t.cells[i] {
			row = append(row, v.Text)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", entity, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
