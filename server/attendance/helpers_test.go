package attendance

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/topi314/checkin-tracker/server/sheet"
)

const testChannelID = "1000"

var header = []string{"Nick", "Discord ID", "Última presença", "Presenças", "Penúltima presença", "Dias inativo", "", "ESA", "CFO", "Promoção", "Patente"}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) advance(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func newClock(t *testing.T) *testClock {
	return &testClock{now: time.Date(2024, time.March, 10, 20, 30, 0, 0, saoPaulo(t))}
}

func newTestProcessor(t *testing.T, store sheet.Store, clock *testClock) *Processor {
	t.Helper()
	cfg := DefaultConfig()
	resolver, err := cfg.Resolver()
	require.NoError(t, err)

	return NewProcessor(NewLedger(store, cfg.Gates), resolver, ProcessorConfig{
		ChannelID: testChannelID,
		Command:   cfg.Command,
		Location:  saoPaulo(t),
		Neutral:   cfg.NeutralColor,
		Messages:  cfg.Messages,
		Now:       clock.Now,
	})
}

func checkInEvent(id string, name string) Event {
	return Event{
		SenderID:   id,
		SenderName: name,
		ChannelID:  testChannelID,
		Text:       "!presença",
		InGuild:    true,
	}
}

// memberRow builds a full sheet row. esa and cfo are the course cells.
func memberRow(name string, id string, last string, count int, previous string, inactivity string, esa string, cfo string) []string {
	return []string{name, id, last, strconv.Itoa(count), previous, inactivity, "", esa, cfo, "", ""}
}

func newStore(t *testing.T, rows ...[]string) *sheet.Memory {
	t.Helper()
	store := sheet.NewMemory(header...)
	for _, row := range rows {
		require.NoError(t, store.AppendRow(context.Background(), row))
	}
	return store
}

// failingStore fails every write to one column and, optionally, every read.
type failingStore struct {
	*sheet.Memory
	failColumn int
	failRead   bool
}

var errBackend = errors.New("backend unavailable")

func (s *failingStore) Rows(ctx context.Context) ([][]string, error) {
	if s.failRead {
		return nil, errBackend
	}
	return s.Memory.Rows(ctx)
}

func (s *failingStore) UpdateCell(ctx context.Context, row int, col int, value string) error {
	if col == s.failColumn {
		return errBackend
	}
	return s.Memory.UpdateCell(ctx, row, col, value)
}
