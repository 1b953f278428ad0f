package attendance

import (
	"errors"
	"fmt"
)

// Gate freezes attendance progression once a member reaches Ceiling-1
// attendances without having completed Course. Course completion is read from
// Column of the member's row.
type Gate struct {
	Ceiling int    `toml:"ceiling"`
	Course  string `toml:"course"`
	Column  int    `toml:"column"`
	Message string `toml:"message"`
}

func (g Gate) String() string {
	return fmt.Sprintf("%d requires %s (column %d)", g.Ceiling, g.Course, g.Column)
}

// Courses holds the completion state of every gated course by name.
type Courses map[string]bool

func (c Courses) Completed(course string) bool {
	return c[course]
}

var ErrInvalidGates = errors.New("invalid promotion gates")

type Resolution struct {
	Rank    Rank
	Blocked bool
	Reason  string
}

type RankResolver struct {
	table PromotionTable
	gates []Gate
}

// NewRankResolver validates that gate ceilings are positive and strictly increasing.
func NewRankResolver(table PromotionTable, gates []Gate) (*RankResolver, error) {
	for i, gate := range gates {
		if gate.Ceiling <= 0 {
			return nil, fmt.Errorf("%w: ceiling must be positive, got %d", ErrInvalidGates, gate.Ceiling)
		}
		if gate.Course == "" {
			return nil, fmt.Errorf("%w: gate at %d has no course", ErrInvalidGates, gate.Ceiling)
		}
		if i > 0 && gate.Ceiling <= gates[i-1].Ceiling {
			return nil, fmt.Errorf("%w: ceiling %d does not increase after %d", ErrInvalidGates, gate.Ceiling, gates[i-1].Ceiling)
		}
	}
	return &RankResolver{
		table: table,
		gates: gates,
	}, nil
}

func (r *RankResolver) Table() PromotionTable {
	return r.table
}

// Resolve derives the rank for count and whether the next increment is blocked.
// A gate applies from one below its ceiling up to the next gate's ceiling; the
// first applying gate whose course is missing wins.
func (r *RankResolver) Resolve(count int, courses Courses) Resolution {
	res := Resolution{Rank: r.table.Lookup(count)}
	for i, gate := range r.gates {
		if count < gate.Ceiling-1 {
			break
		}
		if i+1 < len(r.gates) && count >= r.gates[i+1].Ceiling {
			continue
		}
		if courses.Completed(gate.Course) {
			continue
		}
		res.Blocked = true
		res.Reason = gate.Message
		return res
	}
	return res
}
