package sheetdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"sheetstack/internal/sheets"
)

var ErrInvalidRow = errors.New("row index must address a data row")

// Match is a located record and the physical row it was read from.
type Match struct {
	Record Record
	Row    int
}

// DB runs row-store operations against a sheets.Table. It adds no locking:
// read-modify-write sequences from concurrent callers can interleave.
type DB struct {
	table sheets.Table
	log   zerolog.Logger
}

func New(table sheets.Table, log zerolog.Logger) *DB {
	return &DB{table: table, log: log.With().Str("component", "sheetdb").Logger()}
}

// ReadAll returns the sheet header and every decoded record.
func (d *DB) ReadAll(ctx context.Context, sheet string) (Schema, []Record, error) {
	grid, err := d.table.BulkRead(ctx, sheet)
	if err != nil {
		return nil, nil, err
	}
	header, records := Decode(grid)
	return header, records, nil
}

// EnsureHeader makes row 1 equal the expected schema. A sheet with no rows at
// all gets the header appended. Otherwise row 1 is overwritten in place when it
// differs, including when it is blank, and left alone when it matches. Data rows
// are never touched.
func (d *DB) EnsureHeader(ctx context.Context, sheet string, expected Schema) error {
	grid, err := d.table.BulkRead(ctx, sheet)
	if err != nil {
		return fmt.Errorf("read header of %s: %w", sheet, err)
	}
	if len(grid) == 0 {
		d.log.Info().Str("sheet", sheet).Msg("writing header to empty sheet")
		if err := d.table.Append(ctx, sheet, expected); err != nil {
			return fmt.Errorf("write header of %s: %w", sheet, err)
		}
		return nil
	}
	current := Schema(grid[HeaderRow-1])
	if current.Equal(expected) {
		return nil
	}
	d.log.Warn().Str("sheet", sheet).Strs("found", current).Strs("expected", expected).Msg("repairing header")
	width := max(len(current), len(expected))
	row := pad(append([]string(nil), expected...), width)
	if err := d.table.UpdateRange(ctx, sheet, sheets.RowSpan(HeaderRow, width), [][]string{row}); err != nil {
		return fmt.Errorf("repair header of %s: %w", sheet, err)
	}
	return nil
}

// Find returns the first record whose column equals value exactly. A column
// missing from the header is reported as not found.
func (d *DB) Find(ctx context.Context, sheet, column, value string) (Match, bool, error) {
	header, records, err := d.ReadAll(ctx, sheet)
	if err != nil {
		return Match{}, false, err
	}
	if !header.Has(column) {
		d.log.Warn().Str("sheet", sheet).Str("column", column).Msg("schema_warning: lookup column missing from header")
		return Match{}, false, nil
	}
	for offset, rec := range records {
		if rec[column] == value {
			return Match{Record: rec, Row: RowIndex(offset)}, true, nil
		}
	}
	return Match{}, false, nil
}

// Append writes values as a new row in canonical column order.
func (d *DB) Append(ctx context.Context, sheet string, canonical Schema, values map[string]string) error {
	if err := d.table.Append(ctx, sheet, EncodeForAppend(canonical, values)); err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

// ApplyPatch overwrites the patched columns of one row and rewrites the whole
// row, so cells outside the patch keep their values. Keys absent from the
// header are ignored.
func (d *DB) ApplyPatch(ctx context.Context, sheet string, row int, patch map[string]string) error {
	if row <= HeaderRow {
		return fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	headerGrid, err := d.table.ReadRange(ctx, sheet, sheets.Row(HeaderRow))
	if err != nil {
		return fmt.Errorf("read header of %s: %w", sheet, err)
	}
	if len(headerGrid) == 0 || len(headerGrid[0]) == 0 {
		return fmt.Errorf("sheet %s has no header", sheet)
	}
	header := Schema(headerGrid[0])

	rowGrid, err := d.table.ReadRange(ctx, sheet, sheets.RowSpan(row, len(header)))
	if err != nil {
		return fmt.Errorf("read row %d of %s: %w", row, sheet, err)
	}
	var current []string
	if len(rowGrid) > 0 {
		current = rowGrid[0]
	}
	merged := pad(append([]string(nil), current...), len(header))
	for column, value := range patch {
		i := header.Index(column)
		if i < 0 {
			d.log.Debug().Str("sheet", sheet).Str("column", column).Msg("ignoring patch key outside header")
			continue
		}
		merged[i] = value
	}
	if err := d.table.UpdateRange(ctx, sheet, sheets.RowSpan(row, len(header)), [][]string{merged}); err != nil {
		return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
