package sheet

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

var _ Store = (*Memory)(nil)

// NewMemory returns a Store kept in memory, seeded with a header row.
func NewMemory(header ...string) *Memory {
	return &Memory{
		rows:        [][]string{slices.Clone(header)},
		backgrounds: make(map[cell]Color),
	}
}

type cell struct {
	row int
	col int
}

// Memory is a Store for dry runs and tests. It records every write so callers
// can assert on them.
type Memory struct {
	mu          sync.Mutex
	rows        [][]string
	backgrounds map[cell]Color
	writes      int
}

func (m *Memory) Rows(_ context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([][]string, len(m.rows))
	for i, row := range m.rows {
		rows[i] = slices.Clone(row)
	}
	return rows, nil
}

func (m *Memory) AppendRow(_ context.Context, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, slices.Clone(values))
	m.writes++
	return nil
}

func (m *Memory) UpdateCell(_ context.Context, row int, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell %d:%d", row, col)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.rows) < row {
		m.rows = append(m.rows, nil)
	}
	r := m.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	m.rows[row-1] = r
	m.writes++
	return nil
}

func (m *Memory) SetBackground(_ context.Context, row int, col int, color Color) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell %d:%d", row, col)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backgrounds[cell{row: row, col: col}] = color
	m.writes++
	return nil
}

// Cell returns the value at row/col or an empty string.
func (m *Memory) Cell(row int, col int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row < 1 || row > len(m.rows) {
		return ""
	}
	r := m.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// Background returns the colour set on row/col, if any.
func (m *Memory) Background(row int, col int) (Color, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.backgrounds[cell{row: row, col: col}]
	return c, ok
}

// Writes counts every append, cell update and background change.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
