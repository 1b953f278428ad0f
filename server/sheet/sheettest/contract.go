// Package sheettest holds the behaviour every sheet.Store implementation must share.
package sheettest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/checkin-tracker/server/sheet"
)

// Factory returns an empty store whose only row is the given header.
type Factory func(t *testing.T, header []string) sheet.Store

func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("header only", func(t *testing.T) {
		store := newStore(t, []string{"Nick", "ID"})
		rows, err := store.Rows(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"Nick", "ID"}, rows[0])
	})

	t.Run("append then update", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, []string{"Nick", "ID"})

		require.NoError(t, store.AppendRow(ctx, []string{"alice", "1", "01/01/2024", "1", "", "0"}))
		require.NoError(t, store.AppendRow(ctx, []string{"bob", "2", "01/01/2024", "1", "", "0"}))
		require.NoError(t, store.UpdateCell(ctx, 3, 4, "2"))
		require.NoError(t, store.UpdateCell(ctx, 2, 11, "Recruta"))

		rows, err := store.Rows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "alice", rows[1][0])
		assert.Equal(t, "2", rows[2][3])
		require.Len(t, rows[1], 11)
		assert.Equal(t, "Recruta", rows[1][10])
		assert.Equal(t, "", rows[1][9])
	})

	t.Run("set background", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, []string{"Nick", "ID"})
		require.NoError(t, store.AppendRow(ctx, []string{"alice", "1"}))
		require.NoError(t, store.SetBackground(ctx, 2, 10, sheet.MustParseHex("#741b47")))
		require.NoError(t, store.SetBackground(ctx, 2, 10, sheet.Color{}))
	})
}
