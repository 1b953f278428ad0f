package attendance

import (
	"strconv"

	"github.com/topi314/checkin-tracker/internal/xstrconv"
)

// Sheet columns, 1-indexed. Row 1 is the header.
const (
	ColumnDisplayName     = 1
	ColumnIdentity        = 2
	ColumnLastCheckIn     = 3
	ColumnCount           = 4
	ColumnPreviousCheckIn = 5
	ColumnInactivity      = 6
	ColumnHighlight       = 10
	ColumnCurrentRank     = 11
)

// Record is one member's row. Dates are kept in their DD/MM/YYYY cell form and
// are empty when unset.
type Record struct {
	Row              int
	DisplayName      string
	Identity         string
	LastCheckIn      string
	Count            int
	PreviousCheckIn  string
	InactivityDays   int
	Courses          Courses
	HighlightLabel   string
	CurrentRankLabel string

	inactivityCell string
}

func parseRecord(row int, cells []string, gates []Gate) Record {
	rec := Record{
		Row:              row,
		DisplayName:      cellAt(cells, ColumnDisplayName),
		Identity:         cellAt(cells, ColumnIdentity),
		LastCheckIn:      cellAt(cells, ColumnLastCheckIn),
		Count:            xstrconv.ParseCount(cellAt(cells, ColumnCount)),
		PreviousCheckIn:  cellAt(cells, ColumnPreviousCheckIn),
		InactivityDays:   xstrconv.ParseCount(cellAt(cells, ColumnInactivity)),
		Courses:          make(Courses, len(gates)),
		HighlightLabel:   cellAt(cells, ColumnHighlight),
		CurrentRankLabel: cellAt(cells, ColumnCurrentRank),
		inactivityCell:   cellAt(cells, ColumnInactivity),
	}
	for _, gate := range gates {
		rec.Courses[gate.Course] = xstrconv.ParseYes(cellAt(cells, gate.Column))
	}
	return rec
}

// cells is the leading part of a new member's row.
func (r Record) cells() []string {
	return []string{
		r.DisplayName,
		r.Identity,
		r.LastCheckIn,
		strconv.Itoa(r.Count),
		r.PreviousCheckIn,
		strconv.Itoa(r.InactivityDays),
	}
}

func cellAt(cells []string, col int) string {
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

func findRecord(records []Record, identity string) (Record, bool) {
	for _, rec := range records {
		if rec.Identity == identity {
			return rec, true
		}
	}
	return Record{}, false
}
