package xstrconv

// ParseCount parses a cell holding a non-negative integer.
// Cells that are empty or contain anything but ASCII digits count as 0.
func ParseCount(str string) int {
	if str == "" {
		return 0
	}
	n := 0
	for _, c := range str {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
