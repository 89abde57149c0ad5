package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes a header of indexHeader followed by the columns, then one
// line per row with the index label first.
func (f *Frame) WriteCSV(w io.Writer, indexHeader string) error {
	if f == nil {
		return fmt.Errorf("write csv: nil frame")
	}
	if indexHeader == "" {
		indexHeader = f.indexKey()
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{indexHeader}, f.Columns...)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(f.Columns)+1)
	for i, row := range f.Data {
		record[0] = f.Index[i]
		for j, v := range row {
			record[j+1] = strconv.Itoa(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
