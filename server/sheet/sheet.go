package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Store is a single table of string cells addressed by 1-indexed row and column.
// Row 1 is the header row.
type Store interface {
	// Rows returns every row including the header. Rows may be shorter than the
	// widest row when trailing cells are empty.
	Rows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, values []string) error
	UpdateCell(ctx context.Context, row int, col int, value string) error
	SetBackground(ctx context.Context, row int, col int, color Color) error
}

// Color is an RGB colour with components in [0, 1] like the Sheets API uses.
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// ParseHex parses #rrggbb.
func ParseHex(str string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(str), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q: expected #rrggbb", str)
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", str, err)
	}
	return Color{
		Red:   float64(rgb>>16&0xff) / 255,
		Green: float64(rgb>>8&0xff) / 255,
		Blue:  float64(rgb&0xff) / 255,
	}, nil
}

func MustParseHex(str string) Color {
	c, err := ParseHex(str)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.Red), channel(c.Green), channel(c.Blue))
}

func (c Color) String() string {
	return c.Hex()
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ColumnName converts a 1-indexed column number to its A1 letter form.
func ColumnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}

// A1 returns the A1 notation of a single cell, e.g. D5.
func A1(row int, col int) string {
	return ColumnName(col) + strconv.Itoa(row)
}
