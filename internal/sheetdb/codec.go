// Package sheetdb emulates a row store on top of a spreadsheet: the first row
// of a sheet is its schema, every later row is a record aligned to it by
// position.
package sheetdb

// HeaderRow is the physical row holding the schema.
const HeaderRow = 1

// Schema is the ordered list of column names of a sheet.
type Schema []string

func (s Schema) Index(column string) int {
	for i, name := range s {
		if name == column {
			return i
		}
	}
	return -1
}

func (s Schema) Has(column string) bool {
	return s.Index(column) >= 0
}

// Equal reports ordered equality.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Record is one data row keyed by column name. Missing cells decode to "".
type Record map[string]string

// RowIndex maps a 0-based offset among data rows to its physical 1-based row.
func RowIndex(offset int) int {
	return offset + HeaderRow + 1
}

// Decode splits a raw grid into its header and records. An empty grid and a
// header-only grid both yield an empty, non-nil record slice.
func Decode(grid [][]string) (Schema, []Record) {
	if len(grid) == 0 {
		return Schema{}, []Record{}
	}
	header := Schema(append([]string(nil), grid[0]...))
	records := make([]Record, 0, len(grid)-1)
	for _, row := range grid[1:] {
		records = append(records, decodeRow(header, row))
	}
	return header, records
}

func decodeRow(header Schema, row []string) Record {
	rec := make(Record, len(header))
	for i, column := range header {
		if column == "" {
			continue
		}
		if i < len(row) {
			rec[column] = row[i]
		} else {
			rec[column] = ""
		}
	}
	return rec
}

// EncodeForAppend projects values into the column order of the canonical
// schema. Absent fields become "" and keys outside the schema are dropped.
func EncodeForAppend(canonical Schema, values map[string]string) []string {
	row := make([]string, len(canonical))
	for i, column := range canonical {
		row[i] = values[column]
	}
	return row
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
