package sheets

import (
	"context"
	"fmt"
	"strings"
)

// Table is the spreadsheet capability the access layer is written against.
// Rows are 1-based and row 1 is the header. Implementations must be safe for
// concurrent use but give no isolation between callers.
type Table interface {
	BulkRead(ctx context.Context, sheet string) ([][]string, error)
	Append(ctx context.Context, sheet string, row []string) error
	ReadRange(ctx context.Context, sheet string, rng Range) ([][]string, error)
	UpdateRange(ctx context.Context, sheet string, rng Range, values [][]string) error
}

// Range selects rows FirstRow..LastRow (inclusive, 1-based). Columns limits the
// selection to the first N columns; zero selects every column.
type Range struct {
	FirstRow int
	LastRow  int
	Columns  int
}

func Row(n int) Range {
	return Range{FirstRow: n, LastRow: n}
}

func RowSpan(n, width int) Range {
	return Range{FirstRow: n, LastRow: n, Columns: width}
}

func (r Range) Validate() error {
	if r.FirstRow < 1 || r.LastRow < r.FirstRow {
		return fmt.Errorf("invalid row range %d:%d", r.FirstRow, r.LastRow)
	}
	if r.Columns < 0 {
		return fmt.Errorf("invalid column count %d", r.Columns)
	}
	return nil
}

// A1 renders the range in spreadsheet A1 notation, e.g. 'Users'!A2:F2.
func (r Range) A1(sheet string) string {
	prefix := quoteSheet(sheet) + "!"
	if r.Columns == 0 {
		return fmt.Sprintf("%s%d:%d", prefix, r.FirstRow, r.LastRow)
	}
	return fmt.Sprintf("%sA%d:%s%d", prefix, r.FirstRow, ColumnName(r.Columns), r.LastRow)
}

// ColumnName converts a 1-based column number to its letter name (1 -> A, 27 -> AA).
func ColumnName(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// mergeRow overwrites the leading cells of dst with src, growing dst as needed.
// Cells past len(src) keep their previous value.
func mergeRow(dst, src []string) []string {
	out := make([]string, max(len(dst), len(src)))
	copy(out, dst)
	copy(out, src)
	return trimTrailing(out)
}

func trimTrailing(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}

func clip(row []string, columns int) []string {
	if columns == 0 || len(row) <= columns {
		return row
	}
	return row[:columns]
}
