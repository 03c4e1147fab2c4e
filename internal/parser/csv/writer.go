package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"datatrust/internal/table"
	"datatrust/pkg/records"
)

// WriteTable writes t as CSV to w: one header row with t.Columns, then one
// row per record, with no index column. Text is stored in the named encoding
// (UTF-8 when empty).
func WriteTable(w io.Writer, t *table.Table, encoding string) error {
	ew, err := EncodeWriter(w, encoding)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(ew)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		for j, c := range t.Columns {
			row[j] = records.Format(r[c])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	// Flush any bytes the encoder is still holding.
	if c, ok := ew.(io.Closer); ok && ew != w {
		return c.Close()
	}
	return nil
}
