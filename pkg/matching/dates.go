package matching

import (
	"fmt"
	"regexp"
	"strconv"
)

var datePartsRe = regexp.MustCompile(`^\s*(\d{1,4})[/.\-](\d{1,2})[/.\-](\d{1,4})\s*$`)

// NormalizeDate canonicalizes a date string to zero-padded YYYY-MM-DD.
// Candidate layouts are tried in order: DD/MM/YYYY, then YYYY/MM/DD, then
// MM/DD/YYYY, with "/", "." or "-" accepted as the separator. A layout is
// rejected when its day exceeds 31 or its month exceeds 12. When no layout
// fits, the input is returned unchanged so callers can still fall back to
// plain string equality.
func NormalizeDate(value string) string {
	parts := datePartsRe.FindStringSubmatch(value)
	if parts == nil {
		return value
	}

	first, _ := strconv.Atoi(parts[1])
	second, _ := strconv.Atoi(parts[2])
	third, _ := strconv.Atoi(parts[3])

	// DD/MM/YYYY
	if len(parts[3]) == 4 && first <= 31 && second <= 12 {
		return formatDate(third, second, first)
	}
	// YYYY/MM/DD
	if len(parts[1]) == 4 && second <= 12 && third <= 31 {
		return formatDate(first, second, third)
	}
	// MM/DD/YYYY
	if len(parts[3]) == 4 && first <= 12 && second <= 31 {
		return formatDate(third, first, second)
	}

	return value
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
