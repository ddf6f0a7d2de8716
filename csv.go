package fundamental

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// LoadFactTableCSV reads a fact table from CSV. The column set is not known
// ahead of time - open XBRL dimension columns vary filing to filing - so
// this uses gocsv.CSVToMaps, which reads a header row and maps every
// subsequent row to it, rather than gocsv's struct-tag unmarshaler, which
// needs a fixed Go struct per row shape. See DESIGN.md. sink may be nil.
func LoadFactTableCSV(r io.Reader, sink DiagnosticSink) (*FactTable, error) {
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, fmt.Errorf("fundamental: failed to read CSV: %w", err)
	}

	records := make([]RawRecord, 0, len(rows))
	for _, row := range rows {
		rec := make(RawRecord, len(row))
		for col, val := range row {
			rec[col] = NormalizeFactText(val)
		}
		records = append(records, rec)
	}

	return NewFactTable(records, sink)
}
