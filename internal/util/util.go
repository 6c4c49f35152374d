// Package util provides small formatting helpers shared across the simulation.
package util

import (
	"fmt"
	"strings"
)

// AirportName encodes an airport index as letters: 0 is "AAA", 1 is
// "AAB", 26 is "ABA". Names grow past three letters once the three-letter
// space is exhausted.
func AirportName(id int) string {
	if id < 0 {
		id = 0
	}
	letters := make([]byte, 0, 4)
	for n := id; ; n /= 26 {
		letters = append(letters, byte('A'+n%26))
		if n < 26 {
			break
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'A')
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters)
}

// NormalizeName folds a name for case-insensitive comparison.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FormatHours renders an hour count as days and hours.
func FormatHours(h uint64) string {
	days, hours := h/24, h%24
	if days == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd %dh", days, hours)
}
