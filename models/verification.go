// models/verification.go
package models

import "time"

// VerificationResult is the outcome of a single verification attempt for one
// goal. It is ephemeral — used to update the goal and decide payout
// eligibility, never persisted on its own.
type VerificationResult struct {
	GoalID          string    `json:"goal_id"`
	IsSuccessful    bool      `json:"is_successful"`
	ConsecutiveDays int       `json:"consecutive_days"`
	Timestamp       time.Time `json:"timestamp"`
}
