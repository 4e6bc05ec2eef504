package schedule

import (
	"fmt"
	"strings"
)

// Header returns the hour labels "00 01 ... 23" aligned with Row.
func Header() string {
	parts := make([]string, HoursPerDay)
	for i := range HoursPerDay {
		parts[i] = fmt.Sprintf("%02d", i)
	}
	return strings.Join(parts, " ")
}

// Row renders hours as two-character glyphs separated by single spaces.
func Row(hours []HourStatus) string {
	parts := make([]string, len(hours))
	for i, s := range hours {
		parts[i] = s.Glyph()
	}
	return strings.Join(parts, " ")
}
