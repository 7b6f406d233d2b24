package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Postgres stores each physical row as a JSON array in sheet_rows. It mirrors
// the hosted spreadsheet semantics closely enough for local development.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type storedRow struct {
	RowNo int    `db:"row_no"`
	Cells []byte `db:"cells"`
}

func (p *Postgres) BulkRead(ctx context.Context, sheet string) ([][]string, error) {
	rows := []storedRow{}
	if err := p.db.SelectContext(ctx, &rows, `
SELECT row_no, cells
FROM sheet_rows
WHERE sheet = $1
ORDER BY row_no
`, sheet); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return assemble(rows, 1, 0)
}

func (p *Postgres) Append(ctx context.Context, sheet string, row []string) error {
	cells, err := json.Marshal(trimTrailing(append([]string{}, row...)))
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO sheet_rows (sheet, row_no, cells)
SELECT $1, COALESCE(MAX(row_no), 0) + 1, $2::jsonb
FROM sheet_rows
WHERE sheet = $1
`, sheet, string(cells))
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	return nil
}

func (p *Postgres) ReadRange(ctx context.Context, sheet string, rng Range) ([][]string, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	rows := []storedRow{}
	if err := p.db.SelectContext(ctx, &rows, `
SELECT row_no, cells
FROM sheet_rows
WHERE sheet = $1 AND row_no BETWEEN $2 AND $3
ORDER BY row_no
`, sheet, rng.FirstRow, rng.LastRow); err != nil {
		return nil, fmt.Errorf("read range %s: %w", rng.A1(sheet), err)
	}
	return assemble(rows, rng.FirstRow, rng.Columns)
}

func (p *Postgres) UpdateRange(ctx context.Context, sheet string, rng Range, values [][]string) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, row := range values {
		n := rng.FirstRow + i
		if n > rng.LastRow {
			break
		}
		var raw []byte
		err := tx.GetContext(ctx, &raw, `SELECT cells FROM sheet_rows WHERE sheet = $1 AND row_no = $2 FOR UPDATE`, sheet, n)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock row %d of %s: %w", n, sheet, err)
		}
		current := []string{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &current); err != nil {
				return fmt.Errorf("decode row %d of %s: %w", n, sheet, err)
			}
		}
		merged, err := json.Marshal(mergeRow(current, clip(row, rng.Columns)))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO sheet_rows (sheet, row_no, cells, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (sheet, row_no) DO UPDATE SET cells = EXCLUDED.cells, updated_at = now()
`, sheet, n, string(merged)); err != nil {
			return fmt.Errorf("write row %d of %s: %w", n, sheet, err)
		}
	}
	return tx.Commit()
}

// assemble lays stored rows out as a dense grid starting at row first; gaps
// between stored rows become empty rows.
func assemble(rows []storedRow, first, columns int) ([][]string, error) {
	grid := [][]string{}
	for _, r := range rows {
		cells := []string{}
		if err := json.Unmarshal(r.Cells, &cells); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", r.RowNo, err)
		}
		for len(grid) < r.RowNo-first {
			grid = append(grid, []string{})
		}
		grid = append(grid, clip(cells, columns))
	}
	return trimGrid(grid), nil
}
