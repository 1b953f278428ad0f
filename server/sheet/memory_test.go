package sheet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/checkin-tracker/server/sheet"
	"github.com/topi314/checkin-tracker/server/sheet/sheettest"
)

func TestMemoryContract(t *testing.T) {
	sheettest.Run(t, func(t *testing.T, header []string) sheet.Store {
		return sheet.NewMemory(header...)
	})
}

func TestMemoryBackground(t *testing.T) {
	ctx := context.Background()
	m := sheet.NewMemory("Nick")
	require.NoError(t, m.SetBackground(ctx, 2, 4, sheet.MustParseHex("#38761d")))

	c, ok := m.Background(2, 4)
	require.True(t, ok)
	assert.Equal(t, "#38761d", c.Hex())

	_, ok = m.Background(2, 10)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Writes())
}
