package sheets

import (
	"context"
	"sync"
)

// Memory is an in-process Table. It backs tests and STORE_BACKEND=memory.
type Memory struct {
	mu    sync.RWMutex
	grids map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{grids: map[string][][]string{}}
}

// Seed replaces the contents of a sheet.
func (m *Memory) Seed(sheet string, grid [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[sheet] = copyGrid(grid)
}

func (m *Memory) BulkRead(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyGrid(trimGrid(m.grids[sheet])), nil
}

func (m *Memory) Append(ctx context.Context, sheet string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid := trimGrid(m.grids[sheet])
	m.grids[sheet] = append(grid, trimTrailing(append([]string(nil), row...)))
	return nil
}

func (m *Memory) ReadRange(ctx context.Context, sheet string, rng Range) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	grid := trimGrid(m.grids[sheet])
	out := [][]string{}
	for n := rng.FirstRow; n <= rng.LastRow && n <= len(grid); n++ {
		out = append(out, append([]string(nil), clip(grid[n-1], rng.Columns)...))
	}
	return trimGrid(out), nil
}

func (m *Memory) UpdateRange(ctx context.Context, sheet string, rng Range, values [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rng.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	grid := m.grids[sheet]
	for i, row := range values {
		n := rng.FirstRow + i
		if n > rng.LastRow {
			break
		}
		for len(grid) < n {
			grid = append(grid, nil)
		}
		grid[n-1] = mergeRow(grid[n-1], clip(row, rng.Columns))
	}
	m.grids[sheet] = grid
	return nil
}

// trimGrid drops trailing empty rows, which the hosted service never reports.
func trimGrid(grid [][]string) [][]string {
	end := len(grid)
	for end > 0 && len(trimTrailing(grid[end-1])) == 0 {
		end--
	}
	return grid[:end]
}

func copyGrid(grid [][]string) [][]string {
	out := make([][]string, 0, len(grid))
	for _, row := range grid {
		out = append(out, append([]string(nil), row...))
	}
	return out
}
