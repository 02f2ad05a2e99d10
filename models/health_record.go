// models/health_record.go
package models

// HealthDataType identifies which biometric a goal or record refers to
type HealthDataType string

const (
	DataTypeSleep     HealthDataType = "sleep"
	DataTypeSteps     HealthDataType = "steps"
	DataTypeRecovery  HealthDataType = "recovery"
	DataTypeStrain    HealthDataType = "strain"
	DataTypeHeartRate HealthDataType = "heart_rate"
	DataTypeWeight    HealthDataType = "weight"
)

// ComparisonDirection says which side of the target counts as success
type ComparisonDirection string

const (
	DirectionAtLeast ComparisonDirection = "at_least" // value >= target
	DirectionAtMost  ComparisonDirection = "at_most"  // value <= target (strain: lower is better)
)

// comparisonDirections is the explicit per-type table. Strain is the only
// inverted metric — do not infer direction anywhere else.
var comparisonDirections = map[HealthDataType]ComparisonDirection{
	DataTypeSleep:     DirectionAtLeast,
	DataTypeSteps:     DirectionAtLeast,
	DataTypeRecovery:  DirectionAtLeast,
	DataTypeStrain:    DirectionAtMost,
	DataTypeHeartRate: DirectionAtLeast,
	DataTypeWeight:    DirectionAtLeast,
}

// DirectionFor returns the comparison direction for a data type.
// Unknown types default to at-least.
func DirectionFor(t HealthDataType) ComparisonDirection {
	if d, ok := comparisonDirections[t]; ok {
		return d
	}
	return DirectionAtLeast
}

// Valid reports whether t is a known health data type.
func (t HealthDataType) Valid() bool {
	_, ok := comparisonDirections[t]
	return ok
}

// HealthRecord is one calendar day of aggregated biometrics for the
// connected user. Built by the normalizer from raw vendor payloads and
// read-only afterward — a re-fetch supersedes it, nothing mutates it.
// Nil fields mean "not measured", never zero.
type HealthRecord struct {
	Date          string   `json:"date"` // YYYY-MM-DD, unique per user
	SleepScore    *float64 `json:"sleep_score,omitempty"`    // 0–100
	Steps         *float64 `json:"steps,omitempty"`          // non-negative
	RecoveryScore *float64 `json:"recovery_score,omitempty"` // 0–100
	StrainScore   *float64 `json:"strain_score,omitempty"`   // 0–21
	HeartRate     *float64 `json:"heart_rate,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
}

// ValueFor returns the record's value for the given data type, or nil if
// that metric was not measured that day.
func (r *HealthRecord) ValueFor(t HealthDataType) *float64 {
	switch t {
	case DataTypeSleep:
		return r.SleepScore
	case DataTypeSteps:
		return r.Steps
	case DataTypeRecovery:
		return r.RecoveryScore
	case DataTypeStrain:
		return r.StrainScore
	case DataTypeHeartRate:
		return r.HeartRate
	case DataTypeWeight:
		return r.Weight
	}
	return nil
}
