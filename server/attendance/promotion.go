package attendance

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/topi314/checkin-tracker/server/sheet"
)

// Rank is a title reached at Threshold attendances. Color is used to highlight
// the member's row while the promotion is fresh.
type Rank struct {
	Threshold int         `toml:"threshold"`
	Name      string      `toml:"name"`
	Color     sheet.Color `toml:"color"`
}

func (r Rank) String() string {
	return fmt.Sprintf("%d=%s(%s)", r.Threshold, r.Name, r.Color)
}

var ErrInvalidPromotionTable = errors.New("invalid promotion table")

// PromotionTable maps attendance counts to ranks. It is immutable once built.
type PromotionTable struct {
	ranks []Rank
}

// NewPromotionTable validates ranks: the first threshold must be 0 (the baseline
// rank) and thresholds must strictly increase.
func NewPromotionTable(ranks []Rank) (PromotionTable, error) {
	if len(ranks) == 0 {
		return PromotionTable{}, fmt.Errorf("%w: no ranks", ErrInvalidPromotionTable)
	}
	if ranks[0].Threshold != 0 {
		return PromotionTable{}, fmt.Errorf("%w: lowest threshold must be 0, got %d", ErrInvalidPromotionTable, ranks[0].Threshold)
	}
	for i, rank := range ranks {
		if rank.Name == "" {
			return PromotionTable{}, fmt.Errorf("%w: rank at threshold %d has no name", ErrInvalidPromotionTable, rank.Threshold)
		}
		if i > 0 && rank.Threshold <= ranks[i-1].Threshold {
			return PromotionTable{}, fmt.Errorf("%w: threshold %d does not increase after %d", ErrInvalidPromotionTable, rank.Threshold, ranks[i-1].Threshold)
		}
	}
	return PromotionTable{ranks: slices.Clone(ranks)}, nil
}

// Lookup returns the rank with the greatest threshold <= count.
// Counts below every threshold get the baseline rank.
func (t PromotionTable) Lookup(count int) Rank {
	i := sort.Search(len(t.ranks), func(i int) bool {
		return t.ranks[i].Threshold > count
	})
	if i == 0 {
		return t.ranks[0]
	}
	return t.ranks[i-1]
}

// At returns the rank whose threshold is exactly count.
func (t PromotionTable) At(count int) (Rank, bool) {
	i, ok := slices.BinarySearchFunc(t.ranks, count, func(r Rank, count int) int {
		return r.Threshold - count
	})
	if !ok {
		return Rank{}, false
	}
	return t.ranks[i], true
}

func (t PromotionTable) Ranks() []Rank {
	return slices.Clone(t.ranks)
}

// DefaultRanks is the promotion table of the community the bot was built for.
func DefaultRanks() []Rank {
	return []Rank{
		{Threshold: 0, Name: "Reservista", Color: sheet.MustParseHex("#990000")},
		{Threshold: 15, Name: "Recruta", Color: sheet.MustParseHex("#85200c")},
		{Threshold: 20, Name: "Sd 2ª Cl", Color: sheet.MustParseHex("#6aa84f")},
		{Threshold: 35, Name: "Sd 1ª Cl", Color: sheet.MustParseHex("#6aa84f")},
		{Threshold: 45, Name: "Cabo", Color: sheet.MustParseHex("#6aa84f")},
		{Threshold: 55, Name: "Sgt 3ª Cl", Color: sheet.MustParseHex("#38761d")},
		{Threshold: 65, Name: "2º Sgt", Color: sheet.MustParseHex("#38761d")},
		{Threshold: 80, Name: "1º Sgt", Color: sheet.MustParseHex("#38761d")},
		{Threshold: 100, Name: "SubTenente", Color: sheet.MustParseHex("#38761d")},
		{Threshold: 120, Name: "Aluno-Oficial", Color: sheet.MustParseHex("#1155cc")},
		{Threshold: 145, Name: "Aspirante a Oficial", Color: sheet.MustParseHex("#1155cc")},
		{Threshold: 160, Name: "2º Ten", Color: sheet.MustParseHex("#0b5394")},
		{Threshold: 180, Name: "1º Ten", Color: sheet.MustParseHex("#0b5394")},
		{Threshold: 250, Name: "Capitão", Color: sheet.MustParseHex("#741b47")},
	}
}
