package sheets

import (
	"context"
	"time"

	"sheetstack/internal/metrics"
)

// Instrumented records call counts and latency for every operation of the
// wrapped Table.
type Instrumented struct {
	Next Table
}

func (t Instrumented) BulkRead(ctx context.Context, sheet string) ([][]string, error) {
	start := time.Now()
	grid, err := t.Next.BulkRead(ctx, sheet)
	metrics.ObserveStore("bulk_read", time.Since(start), err)
	return grid, err
}

func (t Instrumented) Append(ctx context.Context, sheet string, row []string) error {
	start := time.Now()
	err := t.Next.Append(ctx, sheet, row)
	metrics.ObserveStore("append", time.Since(start), err)
	return err
}

func (t Instrumented) ReadRange(ctx context.Context, sheet string, rng Range) ([][]string, error) {
	start := time.Now()
	grid, err := t.Next.ReadRange(ctx, sheet, rng)
	metrics.ObserveStore("read_range", time.Since(start), err)
	return grid, err
}

func (t Instrumented) UpdateRange(ctx context.Context, sheet string, rng Range, values [][]string) error {
	start := time.Now()
	err := t.Next.UpdateRange(ctx, sheet, rng, values)
	metrics.ObserveStore("update_range", time.Since(start), err)
	return err
}
