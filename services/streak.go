// services/streak.go
package services

import "wellness-payout-system/models"

// EvaluateStreak counts consecutive qualifying days starting from the most
// recent record and walking backward. records must be sorted
// most-recent-first (the normalizer's output order).
//
// The walk stops at the first day that is missing the metric or fails the
// comparison — a gap breaks the streak, it is never skipped. Earlier passing
// days beyond a break do not count. Empty input yields 0.
func EvaluateStreak(records []models.HealthRecord, dataType models.HealthDataType, target float64, direction models.ComparisonDirection) int {
	streak := 0
	for i := range records {
		value := records[i].ValueFor(dataType)
		if value == nil || !satisfies(*value, target, direction) {
			break
		}
		streak++
	}
	return streak
}

func satisfies(value, target float64, direction models.ComparisonDirection) bool {
	if direction == models.DirectionAtMost {
		return value <= target
	}
	return value >= target
}
