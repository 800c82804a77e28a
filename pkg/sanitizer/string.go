package sanitizer

import (
	"strings"
	"unicode"
)

func trimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// HolidayReason is shown back to users in rule violations.
func HolidayReason(reason string) string {
	return trimAndNormalize(dropControl(reason))
}
