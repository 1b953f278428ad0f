package xstrconv

import (
	"strings"
)

// ParseYes reports whether a free-text sheet cell marks something as done.
// Only "SIM" (any case, surrounding blanks ignored) counts, everything else is a no.
func ParseYes(str string) bool {
	return strings.ToUpper(strings.TrimSpace(str)) == "SIM"
}
