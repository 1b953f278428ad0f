package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/checkin-tracker/server/sheet"
	"github.com/topi314/checkin-tracker/server/sheet/sheettest"
)

func newTestDatabase(t *testing.T, header []string) *Database {
	t.Helper()
	db, err := New(context.Background(), Config{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "checkins.db"),
	}, header)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestDatabaseContract(t *testing.T) {
	sheettest.Run(t, func(t *testing.T, header []string) sheet.Store {
		return newTestDatabase(t, header)
	})
}

func TestDatabaseHeaderWrittenOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkins.db")
	cfg := Config{Driver: DriverSQLite, Path: path}

	db, err := New(ctx, cfg, []string{"Nick", "ID"})
	require.NoError(t, err)
	require.NoError(t, db.AppendRow(ctx, []string{"Alice", "42"}))
	require.NoError(t, db.Close())

	db, err = New(ctx, cfg, []string{"Nick", "ID"})
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nick", "ID"}, {"Alice", "42"}}, rows)
}

func TestDatabaseBackground(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, []string{"Nick", "ID"})

	require.NoError(t, db.AppendRow(ctx, []string{"Alice", "42", "10/03/2024", "15"}))
	require.NoError(t, db.SetBackground(ctx, 2, 4, sheet.MustParseHex("#85200c")))
	require.NoError(t, db.SetBackground(ctx, 2, 10, sheet.MustParseHex("#85200c")))

	cell, err := db.Cell(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, "15", cell.Value)
	require.NotNil(t, cell.Background)
	assert.Equal(t, "#85200c", *cell.Background)

	cell, err = db.Cell(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "", cell.Value)

	_, err = db.Cell(ctx, 9, 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unknown database driver")
}
