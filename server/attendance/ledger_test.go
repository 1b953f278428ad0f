package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerFind(t *testing.T) {
	store := newStore(t,
		memberRow("Alice", "1", "05/03/2024", 10, "01/03/2024", "3", "SIM", ""),
		memberRow("Bob", "2", "09/03/2024", 1, "", "0", "", ""),
	)
	ledger := NewLedger(store, DefaultConfig().Gates)

	rec, ok, err := ledger.Find(context.Background(), "2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, rec.Row)
	assert.Equal(t, "Bob", rec.DisplayName)

	rec, ok, err = ledger.Find(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Courses.Completed("ESA"))
	assert.False(t, rec.Courses.Completed("CFO"))

	rec, ok, err = ledger.Find(context.Background(), "3")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Record{Row: 4, Identity: "3"}, rec)
}

func TestLedgerFindEmptySheet(t *testing.T) {
	ledger := NewLedger(newStore(t), DefaultConfig().Gates)

	rec, ok, err := ledger.Find(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, rec.Row)
}

func TestLedgerFindReadFailure(t *testing.T) {
	ledger := NewLedger(&failingStore{Memory: newStore(t), failRead: true}, DefaultConfig().Gates)

	_, _, err := ledger.Find(context.Background(), "1")
	assert.ErrorIs(t, err, ErrStoreRead)
	assert.ErrorIs(t, err, errBackend)
}
