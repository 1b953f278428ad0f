package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/topi314/checkin-tracker/server/sheet"
)

var (
	ErrStoreRead  = errors.New("store read failed")
	ErrStoreWrite = errors.New("store write failed")
	ErrDateParse  = errors.New("malformed date")
)

// Ledger reads and writes member records in a sheet.Store.
//
// The check-in processor and the inactivity refresher share one Ledger and
// hold its lock for a whole transaction, so their store calls never interleave.
type Ledger struct {
	store sheet.Store
	gates []Gate
	mu    sync.Mutex
	// generation counts writes, guarded by mu.
	generation uint64
}

func NewLedger(store sheet.Store, gates []Gate) *Ledger {
	return &Ledger{
		store: store,
		gates: gates,
	}
}

// Records returns every member record below the header, in row order.
func (l *Ledger) Records(ctx context.Context) ([]Record, error) {
	rows, err := l.store.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows: %w", ErrStoreRead, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		records = append(records, parseRecord(i+2, cells, l.gates))
	}
	return records, nil
}

// Find returns the record of identity. When identity has no row yet, the
// returned record only holds the identity and the row it would be appended at.
func (l *Ledger) Find(ctx context.Context, identity string) (Record, bool, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return Record{}, false, err
	}
	if rec, ok := findRecord(records, identity); ok {
		return rec, true, nil
	}
	return Record{Row: len(records) + 2, Identity: identity}, false, nil
}

func (l *Ledger) Append(ctx context.Context, rec Record) error {
	l.generation++
	if err := l.store.AppendRow(ctx, rec.cells()); err != nil {
		return fmt.Errorf("%w: failed to append row for %s: %w", ErrStoreWrite, rec.Identity, err)
	}
	return nil
}

func (l *Ledger) Update(ctx context.Context, row int, col int, value string) error {
	l.generation++
	if err := l.store.UpdateCell(ctx, row, col, value); err != nil {
		return fmt.Errorf("%w: failed to update cell %s: %w", ErrStoreWrite, sheet.A1(row, col), err)
	}
	return nil
}

// Highlight sets the background of cols in row.
func (l *Ledger) Highlight(ctx context.Context, row int, color sheet.Color, cols ...int) error {
	l.generation++
	for _, col := range cols {
		if err := l.store.SetBackground(ctx, row, col, color); err != nil {
			return fmt.Errorf("%w: failed to format cell %s: %w", ErrStoreWrite, sheet.A1(row, col), err)
		}
	}
	return nil
}
