package database

import (
	"context"
	"fmt"

	"github.com/topi314/checkin-tracker/server/sheet"
)

var _ sheet.Store = (*Database)(nil)

type Cell struct {
	Row        int     `db:"cell_row"`
	Col        int     `db:"cell_col"`
	Value      string  `db:"cell_value"`
	Background *string `db:"cell_background"`
}

func (d *Database) Rows(ctx context.Context) ([][]string, error) {
	query := `
		SELECT cell_row, cell_col, cell_value, cell_background
		FROM sheet_cells
		ORDER BY cell_row, cell_col
	`

	var cells []Cell
	if err := d.db.SelectContext(ctx, &cells, query); err != nil {
		return nil, fmt.Errorf("failed to get cells: %w", err)
	}

	var rows [][]string
	for _, cell := range cells {
		for len(rows) < cell.Row {
			rows = append(rows, nil)
		}
		row := rows[cell.Row-1]
		for len(row) < cell.Col {
			row = append(row, "")
		}
		row[cell.Col-1] = cell.Value
		rows[cell.Row-1] = row
	}
	return rows, nil
}

func (d *Database) AppendRow(ctx context.Context, values []string) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var row int
	if err = tx.GetContext(ctx, &row, "SELECT COALESCE(MAX(cell_row), 0) + 1 FROM sheet_cells"); err != nil {
		return fmt.Errorf("failed to get next row: %w", err)
	}

	cells := make([]Cell, len(values))
	for i, value := range values {
		cells[i] = Cell{
			Row:   row,
			Col:   i + 1,
			Value: value,
		}
	}

	if len(cells) > 0 {
		query := `
			INSERT INTO sheet_cells (cell_row, cell_col, cell_value)
			VALUES (:cell_row, :cell_col, :cell_value)
		`
		if _, err = tx.NamedExecContext(ctx, query, cells); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit row %d: %w", row, err)
	}
	return nil
}

func (d *Database) UpdateCell(ctx context.Context, row int, col int, value string) error {
	query := `
		INSERT INTO sheet_cells (cell_row, cell_col, cell_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (cell_row, cell_col) DO UPDATE
		SET cell_value = EXCLUDED.cell_value
	`

	if _, err := d.db.ExecContext(ctx, query, row, col, value); err != nil {
		return fmt.Errorf("failed to update cell %s: %w", sheet.A1(row, col), err)
	}
	return nil
}

func (d *Database) SetBackground(ctx context.Context, row int, col int, color sheet.Color) error {
	query := `
		INSERT INTO sheet_cells (cell_row, cell_col, cell_background)
		VALUES ($1, $2, $3)
		ON CONFLICT (cell_row, cell_col) DO UPDATE
		SET cell_background = EXCLUDED.cell_background
	`

	if _, err := d.db.ExecContext(ctx, query, row, col, color.Hex()); err != nil {
		return fmt.Errorf("failed to set background of cell %s: %w", sheet.A1(row, col), err)
	}
	return nil
}

// Cell returns a single cell including its background.
func (d *Database) Cell(ctx context.Context, row int, col int) (*Cell, error) {
	query := `
		SELECT cell_row, cell_col, cell_value, cell_background
		FROM sheet_cells
		WHERE cell_row = $1 AND cell_col = $2
	`

	var cell Cell
	if err := d.db.GetContext(ctx, &cell, query, row, col); err != nil {
		return nil, fmt.Errorf("failed to get cell %s: %w", sheet.A1(row, col), err)
	}
	return &cell, nil
}
