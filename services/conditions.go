// services/conditions.go
package services

import (
	"strings"
	"unicode"
)

// Condition strings come from the goal creation UI as free text, e.g.
// "consecutive_nights >= 5" or "7 consecutive_days". Parsing is deliberately
// isolated here so a structured condition schema can replace it later
// without touching the evaluator.

// RequiredDays scans completion conditions for a consecutive-day
// requirement and returns the first one found. Conditions have OR
// semantics — satisfying any single one completes the goal — so the first
// matching string wins. No matching condition yields 0, which makes any
// successful evaluation complete the goal (callers log this case).
func RequiredDays(conditions []string) int {
	for _, cond := range conditions {
		if !strings.Contains(cond, "consecutive_days") && !strings.Contains(cond, "consecutive_nights") {
			continue
		}
		if n, ok := firstInt(cond); ok {
			return n
		}
	}
	return 0
}

// firstInt extracts the first run of digits in s.
func firstInt(s string) (int, bool) {
	n := 0
	found := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			n = n*10 + int(r-'0')
			found = true
			continue
		}
		if found {
			break
		}
	}
	return n, found
}
