// models/goal.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationType indicates whether the engine verifies the goal on its own
// or a human signs off
type VerificationType string

const (
	VerificationAutomatic VerificationType = "automatic"
	VerificationManual    VerificationType = "manual"
)

// Goal is a sponsored wellness commitment verified against wearable data.
//
// Status model: active → completed (terminal, on verified success). A goal
// past its deadline that never completed is simply never selected again —
// expired-inert, no explicit "failed" state is written.
type Goal struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"index"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	HealthDataType HealthDataType `json:"health_data_type" gorm:"not null;index"`
	TargetValue    float64        `json:"target_value" gorm:"not null"`

	// Free-text completion conditions as supplied by the goal creation UI,
	// e.g. "consecutive_nights >= 5". OR semantics across entries.
	Conditions []string `json:"conditions" gorm:"serializer:json"`

	// Parsed once at creation from Conditions; 0 when no condition mentions
	// consecutive days/nights.
	RequiredConsecutiveDays int `json:"required_consecutive_days"`

	Reward           float64          `json:"reward" gorm:"not null"`
	Deadline         time.Time        `json:"deadline" gorm:"not null;index"`
	Sponsor          string           `json:"sponsor" gorm:"index"`
	VerificationType VerificationType `json:"verification_type" gorm:"not null;default:'automatic'"`

	ConsecutiveSuccessDays  int        `json:"consecutive_success_days" gorm:"default:0"`
	LastVerificationAttempt *time.Time `json:"last_verification_attempt,omitempty"`
	IsVerified              bool       `json:"is_verified" gorm:"default:false"`
	IsCompleted             bool       `json:"is_completed" gorm:"default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Direction returns the comparison direction derived from the goal's data
// type (strain inverts, everything else is at-least).
func (g *Goal) Direction() ComparisonDirection {
	return DirectionFor(g.HealthDataType)
}

// Expired reports whether the goal's deadline has passed without completion.
func (g *Goal) Expired(now time.Time) bool {
	return !g.IsCompleted && now.After(g.Deadline)
}
