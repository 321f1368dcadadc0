package motor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pb33f/wptlog/motor/model"
)

// FieldUnion returns every field name used by rows, in the order each name
// was first seen. A name first seen in a later row is appended, never
// inserted between existing ones.
func FieldUnion(rows []*model.Row) []string {
	var fields []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, name := range row.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			fields = append(fields, name)
		}
	}
	return fields
}

// WriteCSV writes a header of FieldUnion(rows) and one line per row.
// Fields a row does not have are left empty.
func WriteCSV(w io.Writer, rows []*model.Row) error {
	fields := FieldUnion(rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(fields); err != nil {
		return &SerializationFailure{Cause: err}
	}

	record := make([]string, len(fields))
	for _, row := range rows {
		for i, name := range fields {
			if v, ok := row.Get(name); ok {
				record[i] = v.String()
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return &SerializationFailure{Cause: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &SerializationFailure{Cause: err}
	}
	return nil
}

// Serialize renders rows as CSV text.
func Serialize(rows []*model.Row) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReadCSV loads a report written by WriteCSV. Every cell comes back as
// text, empty cells included, so each row has the full header.
func ReadCSV(r io.Reader) ([]string, []*model.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read report header: %w", err)
	}

	var rows []*model.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read report row %d: %w", len(rows)+1, err)
		}

		row := model.NewRow(len(header))
		for i, name := range header {
			row.SetText(name, record[i])
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}
