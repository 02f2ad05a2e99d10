// models/payout.go
package models

import "time"

// PayoutRecord is the immutable proof that a goal's reward was paid out.
// GoalID is the idempotency key — at most one row ever exists per goal,
// enforced by the unique index regardless of how many verification cycles
// race on the same goal.
type PayoutRecord struct {
	ID                   string    `json:"id" gorm:"primaryKey"`
	GoalID               string    `json:"goal_id" gorm:"uniqueIndex;not null"`
	Amount               float64   `json:"amount" gorm:"not null"`
	TransactionReference string    `json:"transaction_reference" gorm:"not null"`
	ExecutedAt           time.Time `json:"executed_at"`
}
